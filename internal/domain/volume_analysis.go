package domain

import "github.com/shopspring/decimal"

const (
	defaultVolumePeriod     = 20
	volumeSpikeThreshold    = 1.5
	veryHighVolumeThreshold = 2.0
)

// VolumeAnalysis trade size statistics of a tape.
type VolumeAnalysis struct {
	// CurrentVolume quantity of the most recent trade.
	CurrentVolume decimal.Decimal
	// AverageVolume mean trade quantity over the last 20 trades.
	AverageVolume decimal.Decimal
	// RelativeVolume CurrentVolume / AverageVolume.
	RelativeVolume decimal.Decimal
	// VolumeSpikes indices (in time order) of trades larger than 1.5x the average.
	VolumeSpikes []int
}

// NewVolumeAnalysis builds trade size statistics from trades sorted by time.
func NewVolumeAnalysis(trades []Trade) VolumeAnalysis {
	if len(trades) == 0 {
		return VolumeAnalysis{
			CurrentVolume:  decimal.Zero,
			AverageVolume:  decimal.Zero,
			RelativeVolume: decimal.Zero,
			VolumeSpikes:   []int{},
		}
	}

	sorted := SortedByTime(trades)

	period := min(defaultVolumePeriod, len(sorted))
	sum := decimal.Zero
	for _, t := range sorted[len(sorted)-period:] {
		sum = sum.Add(t.Quantity)
	}
	avgVolume := sum.Div(decimal.NewFromInt(int64(period)))

	currentVolume := sorted[len(sorted)-1].Quantity

	relativeVolume := decimal.Zero
	if avgVolume.IsPositive() {
		relativeVolume = currentVolume.Div(avgVolume)
	}

	spikeThreshold := avgVolume.Mul(decimal.NewFromFloat(volumeSpikeThreshold))
	spikes := []int{}
	for i, t := range sorted {
		if t.Quantity.GreaterThan(spikeThreshold) {
			spikes = append(spikes, i)
		}
	}

	return VolumeAnalysis{
		CurrentVolume:  currentVolume,
		AverageVolume:  avgVolume,
		RelativeVolume: relativeVolume,
		VolumeSpikes:   spikes,
	}
}

// HasSpike returns true if the latest trade is larger than 1.5x the average.
func (v VolumeAnalysis) HasSpike() bool {
	return v.RelativeVolume.GreaterThan(decimal.NewFromFloat(volumeSpikeThreshold))
}

// IsVeryHighVolume returns true if the latest trade is larger than 2x the average.
func (v VolumeAnalysis) IsVeryHighVolume() bool {
	return v.RelativeVolume.GreaterThan(decimal.NewFromFloat(veryHighVolumeThreshold))
}

// HasRecentSpike returns true if one of the last n trades was a spike.
func (v VolumeAnalysis) HasRecentSpike(lastN, tradeCount int) bool {
	for _, idx := range v.VolumeSpikes {
		if idx >= tradeCount-lastN {
			return true
		}
	}
	return false
}

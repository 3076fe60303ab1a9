// Package metrics provides aggregate volume metrics: volume profile, delta, CVD
// and the volume-weighted mid price.
package metrics

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/microstructure/internal/domain"
)

// ErrInvalidTickSize is returned when the volume profile tick size is not positive.
var ErrInvalidTickSize = errors.New("tick size must be positive")

// valueAreaShare share of total volume the value area must hold.
var valueAreaShare = decimal.RequireFromString("0.70")

// CVDPoint cumulative volume delta after one trade.
type CVDPoint struct {
	Timestamp int64
	Delta     decimal.Decimal
}

// CalculateVolumeProfile buckets trade volume by floor(price / tickSize) * tickSize and
// derives the point of control and the 70% value area around it.
func CalculateVolumeProfile(trades []domain.Trade, tickSize decimal.Decimal) (domain.VolumeProfile, error) {
	if !tickSize.IsPositive() {
		return domain.VolumeProfile{}, ErrInvalidTickSize
	}
	if len(trades) == 0 {
		return domain.VolumeProfile{Levels: []domain.PriceVolume{}}, nil
	}

	levels := bucketVolumes(trades, tickSize)

	poc := 0
	total := decimal.Zero
	for i, l := range levels {
		total = total.Add(l.Volume)
		// strict comparison keeps the lowest price on ties
		if l.Volume.GreaterThan(levels[poc].Volume) {
			poc = i
		}
	}

	low, high := valueArea(levels, poc, total.Mul(valueAreaShare))

	return domain.VolumeProfile{
		Levels: levels,
		POC:    ptr(levels[poc].Price),
		VAH:    ptr(levels[high].Price),
		VAL:    ptr(levels[low].Price),
	}, nil
}

// bucketVolumes returns accumulated volume per bucket, ascending by price.
func bucketVolumes(trades []domain.Trade, tickSize decimal.Decimal) []domain.PriceVolume {
	// decimal.Decimal is not comparable, the canonical string form is used as key
	index := make(map[string]int)
	levels := make([]domain.PriceVolume, 0)

	for _, t := range trades {
		// exact integer quotient; prices and tick size are positive, so truncation is floor
		q, _ := t.Price.QuoRem(tickSize, 0)
		bucket := q.Mul(tickSize)
		key := bucket.String()
		if i, ok := index[key]; ok {
			levels[i].Volume = levels[i].Volume.Add(t.Quantity)
			continue
		}
		index[key] = len(levels)
		levels = append(levels, domain.PriceVolume{Price: bucket, Volume: t.Quantity})
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Price.LessThan(levels[j].Price)
	})
	return levels
}

// valueArea grows [low, high] from the POC toward the heavier neighbouring bucket until
// the claimed volume reaches target. Ties expand upward.
func valueArea(levels []domain.PriceVolume, poc int, target decimal.Decimal) (low, high int) {
	low, high = poc, poc
	claimed := levels[poc].Volume

	for claimed.LessThan(target) {
		canUp := high+1 < len(levels)
		canDown := low > 0
		if !canUp && !canDown {
			break
		}

		if canUp && (!canDown || levels[high+1].Volume.GreaterThanOrEqual(levels[low-1].Volume)) {
			high++
			claimed = claimed.Add(levels[high].Volume)
		} else {
			low--
			claimed = claimed.Add(levels[low].Volume)
		}
	}

	return low, high
}

// CalculateDelta returns buy volume minus sell volume.
func CalculateDelta(trades []domain.Trade) decimal.Decimal {
	delta := decimal.Zero
	for _, t := range trades {
		delta = delta.Add(t.SignedQuantity())
	}
	return delta
}

// CalculateCVD returns the running signed volume after each trade, in timestamp
// order (stable for equal timestamps). There is one point per trade.
func CalculateCVD(trades []domain.Trade) []CVDPoint {
	sorted := domain.SortedByTime(trades)

	points := make([]CVDPoint, 0, len(sorted))
	cvd := decimal.Zero
	for _, t := range sorted {
		cvd = cvd.Add(t.SignedQuantity())
		points = append(points, CVDPoint{Timestamp: t.Timestamp, Delta: cvd})
	}
	return points
}

// WeightedMidPrice weights the top-of-book prices by the opposite side's top quantity:
// (bestBid*askQty + bestAsk*bidQty) / (bidQty + askQty).
// It returns false when either side is empty, and zero when both top quantities are zero.
func WeightedMidPrice(ob domain.OrderBook) (decimal.Decimal, bool) {
	bid, okBid := ob.BestBid()
	ask, okAsk := ob.BestAsk()
	if !okBid || !okAsk {
		return decimal.Zero, false
	}

	total := bid.Quantity.Add(ask.Quantity)
	if total.IsZero() {
		return decimal.Zero, true
	}

	weighted := bid.Price.Mul(ask.Quantity).Add(ask.Price.Mul(bid.Quantity))
	return weighted.Div(total), true
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

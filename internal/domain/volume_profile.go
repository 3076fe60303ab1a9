package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceVolume accumulated traded volume in one price bucket.
type PriceVolume struct {
	Price  decimal.Decimal
	Volume decimal.Decimal
}

// VolumeProfile distribution of traded volume over price buckets.
// Levels holds one entry per bucket, prices unique and ascending.
type VolumeProfile struct {
	// Levels bucket volumes, ascending by price.
	Levels []PriceVolume
	// POC point of control, the bucket with the highest volume.
	POC *decimal.Decimal
	// VAH value area high.
	VAH *decimal.Decimal
	// VAL value area low.
	VAL *decimal.Decimal
}

// Volume returns the accumulated volume of the bucket at price.
func (p VolumeProfile) Volume(price decimal.Decimal) (decimal.Decimal, bool) {
	i := sort.Search(len(p.Levels), func(i int) bool {
		return p.Levels[i].Price.GreaterThanOrEqual(price)
	})
	if i < len(p.Levels) && p.Levels[i].Price.Equal(price) {
		return p.Levels[i].Volume, true
	}
	return decimal.Zero, false
}

// TotalVolume sums the volume of all buckets.
func (p VolumeProfile) TotalVolume() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Levels {
		total = total.Add(l.Volume)
	}
	return total
}

// IsEmpty reports whether the profile was built from no trades.
func (p VolumeProfile) IsEmpty() bool {
	return len(p.Levels) == 0
}

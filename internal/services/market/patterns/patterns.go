// Package patterns holds heuristic detectors for common microstructure patterns.
// Every detector is deterministic and returns its results ordered by ascending price.
package patterns

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/microstructure/internal/domain"
)

// DetectIcebergOrders groups price-sorted trades into runs whose prices stay within
// priceTolerance of the run's first price. Runs with at least minFills trades are
// reported at that first price with their summed quantity.
func DetectIcebergOrders(trades []domain.Trade, minFills int, priceTolerance decimal.Decimal) []domain.Pattern {
	found := make([]domain.Pattern, 0)
	if len(trades) == 0 {
		return found
	}

	sorted := domain.SortedByPrice(trades)

	emit := func(group []domain.Trade) {
		if len(group) < minFills {
			return
		}
		size := decimal.Zero
		for _, t := range group {
			size = size.Add(t.Quantity)
		}
		found = append(found, domain.IcebergOrder{Price: group[0].Price, EstimatedSize: size})
	}

	start := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Price.Sub(sorted[start].Price).LessThanOrEqual(priceTolerance) {
			continue
		}
		emit(sorted[start:i])
		start = i
	}
	emit(sorted[start:])

	return found
}

// DetectSpoofing flags every level on either side with quantity >= threshold.
// This is a size heuristic: one snapshot cannot prove the order is later pulled.
func DetectSpoofing(ob domain.OrderBook, threshold decimal.Decimal) []domain.Pattern {
	found := make([]domain.Pattern, 0)
	for _, l := range ob.Bids {
		if l.Quantity.GreaterThanOrEqual(threshold) {
			found = append(found, domain.Spoofing{Price: l.Price, Side: domain.BookSideBid})
		}
	}
	for _, l := range ob.Asks {
		if l.Quantity.GreaterThanOrEqual(threshold) {
			found = append(found, domain.Spoofing{Price: l.Price, Side: domain.BookSideAsk})
		}
	}
	return SortByPrice(found)
}

// DetectSupportResistance reports bids with quantity >= threshold as support and
// asks as resistance, with the level quantity as strength.
func DetectSupportResistance(ob domain.OrderBook, threshold decimal.Decimal) []domain.Pattern {
	found := make([]domain.Pattern, 0)
	for _, l := range ob.Bids {
		if l.Quantity.GreaterThanOrEqual(threshold) {
			found = append(found, domain.Support{Price: l.Price, Strength: l.Quantity})
		}
	}
	for _, l := range ob.Asks {
		if l.Quantity.GreaterThanOrEqual(threshold) {
			found = append(found, domain.Resistance{Price: l.Price, Strength: l.Quantity})
		}
	}
	return SortByPrice(found)
}

// DetectAbsorption walks trades in time order and splits them into windows where every
// price stays within priceRange of the window's first price. A window whose cumulative
// quantity reaches volumeThreshold is reported at its first price.
func DetectAbsorption(trades []domain.Trade, volumeThreshold, priceRange decimal.Decimal) []domain.Pattern {
	found := make([]domain.Pattern, 0)
	if len(trades) == 0 {
		return found
	}

	sorted := domain.SortedByTime(trades)

	anchor := sorted[0].Price
	volume := decimal.Zero
	flush := func() {
		if volume.GreaterThanOrEqual(volumeThreshold) {
			found = append(found, domain.Absorption{Price: anchor, Volume: volume})
		}
	}

	for _, t := range sorted {
		if t.Price.Sub(anchor).Abs().GreaterThan(priceRange) {
			flush()
			anchor, volume = t.Price, decimal.Zero
		}
		volume = volume.Add(t.Quantity)
	}
	flush()

	return SortByPrice(found)
}

// SortByPrice stably orders patterns by ascending price, in place, and returns them.
func SortByPrice(found []domain.Pattern) []domain.Pattern {
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].PatternPrice().LessThan(found[j].PatternPrice())
	})
	return found
}

// Package book computes top-of-book and depth metrics from an order book snapshot.
package book

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/microstructure/internal/domain"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Spread bid-ask spread of a book.
type Spread struct {
	// Absolute best ask minus best bid.
	Absolute decimal.Decimal
	// Percentage absolute spread relative to the mid price, in percent.
	Percentage decimal.Decimal
}

// DepthSummary level counts and resting volume of both sides.
type DepthSummary struct {
	BidLevels int
	AskLevels int
	BidVolume decimal.Decimal
	AskVolume decimal.Decimal
}

// CalculateSpread returns the spread, or false when either side is empty.
func CalculateSpread(ob domain.OrderBook) (Spread, bool) {
	bid, okBid := BestBid(ob)
	ask, okAsk := BestAsk(ob)
	if !okBid || !okAsk {
		return Spread{}, false
	}

	abs := ask.Sub(bid)
	mid := bid.Add(ask).Div(two)

	return Spread{
		Absolute:   abs,
		Percentage: abs.Div(mid).Mul(hundred),
	}, true
}

// CalculateImbalance returns (bidVol - askVol) / (bidVol + askVol) over the first depth
// levels of each side, or over all levels when depth is nil. The result is in [-1, 1]
// and zero when both sides carry no volume.
func CalculateImbalance(ob domain.OrderBook, depth *int) decimal.Decimal {
	bidVol := TotalVolume(ob.Bids, depth)
	askVol := TotalVolume(ob.Asks, depth)

	total := bidVol.Add(askVol)
	if total.IsZero() {
		return decimal.Zero
	}

	return bidVol.Sub(askVol).Div(total)
}

// BestBid returns the highest bid price.
func BestBid(ob domain.OrderBook) (decimal.Decimal, bool) {
	l, ok := ob.BestBid()
	return l.Price, ok
}

// BestAsk returns the lowest ask price.
func BestAsk(ob domain.OrderBook) (decimal.Decimal, bool) {
	l, ok := ob.BestAsk()
	return l.Price, ok
}

// MidPrice returns the average of best bid and best ask.
func MidPrice(ob domain.OrderBook) (decimal.Decimal, bool) {
	bid, okBid := BestBid(ob)
	ask, okAsk := BestAsk(ob)
	if !okBid || !okAsk {
		return decimal.Zero, false
	}
	return bid.Add(ask).Div(two), true
}

// TotalVolume sums quantity over the first depth levels, or over all levels when
// depth is nil. Depth beyond the number of levels is clamped; depth <= 0 yields zero.
func TotalVolume(levels []domain.Level, depth *int) decimal.Decimal {
	n := len(levels)
	if depth != nil && *depth < n {
		n = max(*depth, 0)
	}

	sum := decimal.Zero
	for _, l := range levels[:n] {
		sum = sum.Add(l.Quantity)
	}
	return sum
}

// Depth summarises both sides of the book.
func Depth(ob domain.OrderBook) DepthSummary {
	return DepthSummary{
		BidLevels: len(ob.Bids),
		AskLevels: len(ob.Asks),
		BidVolume: TotalVolume(ob.Bids, nil),
		AskVolume: TotalVolume(ob.Asks, nil),
	}
}

package domain

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Trade executed trade from the tape.
type Trade struct {
	// Price execution price.
	Price decimal.Decimal
	// Quantity executed quantity.
	Quantity decimal.Decimal
	// Side aggressor side.
	Side Side
	// Timestamp execution time as epoch.
	Timestamp int64
}

// NewTrade creates a validated trade.
func NewTrade(price, quantity decimal.Decimal, side Side, timestamp int64) (Trade, error) {
	if !price.IsPositive() {
		return Trade{}, errors.Wrapf(ErrInvalidPrice, "trade price %s", price)
	}
	if !quantity.IsPositive() {
		return Trade{}, errors.Wrapf(ErrInvalidQuantity, "trade quantity %s must be positive", quantity)
	}
	if !side.IsValid() {
		return Trade{}, errors.Wrapf(ErrInvalidSide, "trade side %d", side)
	}
	return Trade{Price: price, Quantity: quantity, Side: side, Timestamp: timestamp}, nil
}

// SignedQuantity returns +quantity for buys and -quantity for sells.
func (t Trade) SignedQuantity() decimal.Decimal {
	if t.Side == SideSell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// Notional returns price * quantity.
func (t Trade) Notional() decimal.Decimal {
	return t.Price.Mul(t.Quantity)
}

// String returns a human-readable string representation.
func (t Trade) String() string {
	return fmt.Sprintf("%s %s @ %s (ts %d)", t.Side, t.Quantity, t.Price, t.Timestamp)
}

// SortedByTime returns a copy of trades stably sorted by ascending timestamp.
func SortedByTime(trades []Trade) []Trade {
	sorted := append([]Trade(nil), trades...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// SortedByPrice returns a copy of trades stably sorted by ascending price.
func SortedByPrice(trades []Trade) []Trade {
	sorted := append([]Trade(nil), trades...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price.LessThan(sorted[j].Price)
	})
	return sorted
}

package domain

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Level aggregated resting quantity at one price.
type Level struct {
	// Price level price, always positive.
	Price decimal.Decimal
	// Quantity total resting quantity, never negative.
	Quantity decimal.Decimal
}

// NewLevel creates a validated price level.
func NewLevel(price, quantity decimal.Decimal) (Level, error) {
	if !price.IsPositive() {
		return Level{}, errors.Wrapf(ErrInvalidPrice, "level price %s", price)
	}
	if quantity.IsNegative() {
		return Level{}, errors.Wrapf(ErrInvalidQuantity, "level quantity %s must not be negative", quantity)
	}
	return Level{Price: price, Quantity: quantity}, nil
}

// OrderBook snapshot of both sides of a limit order book.
type OrderBook struct {
	// Bids buy levels, best (highest) price first.
	Bids []Level
	// Asks sell levels, best (lowest) price first.
	Asks []Level
	// Timestamp snapshot time as epoch.
	Timestamp int64
}

// NewOrderBook validates the levels and their ordering and returns a snapshot that owns
// copies of both slices.
func NewOrderBook(bids, asks []Level, timestamp int64) (OrderBook, error) {
	if err := validateSide(bids, BookSideBid); err != nil {
		return OrderBook{}, err
	}
	if err := validateSide(asks, BookSideAsk); err != nil {
		return OrderBook{}, err
	}

	return OrderBook{
		Bids:      append([]Level(nil), bids...),
		Asks:      append([]Level(nil), asks...),
		Timestamp: timestamp,
	}, nil
}

func validateSide(levels []Level, side BookSide) error {
	for i, l := range levels {
		if _, err := NewLevel(l.Price, l.Quantity); err != nil {
			return errors.Wrapf(err, "%s level %d", side, i)
		}
		if i == 0 {
			continue
		}
		prev := levels[i-1].Price
		// bids strictly descending, asks strictly ascending
		if side == BookSideBid && !l.Price.LessThan(prev) ||
			side == BookSideAsk && !l.Price.GreaterThan(prev) {
			return errors.Wrapf(ErrUnsortedBook, "%s level %d price %s after %s", side, i, l.Price, prev)
		}
	}
	return nil
}

// BestBid returns the top bid level.
func (ob OrderBook) BestBid() (Level, bool) {
	if len(ob.Bids) == 0 {
		return Level{}, false
	}
	return ob.Bids[0], true
}

// BestAsk returns the top ask level.
func (ob OrderBook) BestAsk() (Level, bool) {
	if len(ob.Asks) == 0 {
		return Level{}, false
	}
	return ob.Asks[0], true
}

// IsEmpty reports whether both sides are empty.
func (ob OrderBook) IsEmpty() bool {
	return len(ob.Bids) == 0 && len(ob.Asks) == 0
}

package domain

import (
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Snapshot order book and trade batch captured together.
type Snapshot struct {
	Book   OrderBook
	Trades []Trade
}

type snapshotTmp struct {
	Book struct {
		Timestamp int64      `yaml:"timestamp"`
		Bids      []levelTmp `yaml:"bids"`
		Asks      []levelTmp `yaml:"asks"`
	} `yaml:"book"`
	Trades []tradeTmp `yaml:"trades"`
}

type levelTmp struct {
	Price    string `yaml:"price"`
	Quantity string `yaml:"quantity"`
}

type tradeTmp struct {
	Price     string `yaml:"price"`
	Quantity  string `yaml:"quantity"`
	Side      Side   `yaml:"side"`
	Timestamp int64  `yaml:"timestamp"`
}

// LoadSnapshot reads a yaml snapshot file.
func LoadSnapshot(path string) (Snapshot, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "read snapshot")
	}
	return ParseSnapshot(f)
}

// ParseSnapshot decodes a yaml snapshot and validates every level and trade.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var tmp snapshotTmp
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return Snapshot{}, errors.Wrap(err, "decode snapshot")
	}

	bids, err := parseLevels(tmp.Book.Bids)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "bids")
	}
	asks, err := parseLevels(tmp.Book.Asks)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "asks")
	}
	book, err := NewOrderBook(bids, asks, tmp.Book.Timestamp)
	if err != nil {
		return Snapshot{}, err
	}

	trades := make([]Trade, 0, len(tmp.Trades))
	for i, t := range tmp.Trades {
		price, err := decimal.NewFromString(t.Price)
		if err != nil {
			return Snapshot{}, errors.Wrapf(err, "trade %d price", i)
		}
		qty, err := decimal.NewFromString(t.Quantity)
		if err != nil {
			return Snapshot{}, errors.Wrapf(err, "trade %d quantity", i)
		}
		trade, err := NewTrade(price, qty, t.Side, t.Timestamp)
		if err != nil {
			return Snapshot{}, errors.Wrapf(err, "trade %d", i)
		}
		trades = append(trades, trade)
	}

	return Snapshot{Book: book, Trades: trades}, nil
}

func parseLevels(raw []levelTmp) ([]Level, error) {
	levels := make([]Level, 0, len(raw))
	for i, l := range raw {
		price, err := decimal.NewFromString(l.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "level %d price", i)
		}
		qty, err := decimal.NewFromString(l.Quantity)
		if err != nil {
			return nil, errors.Wrapf(err, "level %d quantity", i)
		}
		levels = append(levels, Level{Price: price, Quantity: qty})
	}
	return levels, nil
}

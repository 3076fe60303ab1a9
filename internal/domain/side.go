package domain

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Side aggressor side of an executed trade.
type Side int

const (
	SideBuy Side = iota + 1
	SideSell
)

const (
	sideStringBuy  = "buy"
	sideStringSell = "sell"
)

// ParseSide converts "buy"/"sell" (case-insensitive) into a Side.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case sideStringBuy:
		return SideBuy, nil
	case sideStringSell:
		return SideSell, nil
	}
	return 0, errors.Wrapf(ErrInvalidSide, "got %q", s)
}

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case SideBuy:
		return sideStringBuy
	case SideSell:
		return sideStringSell
	default:
		return "unknown"
	}
}

// IsValid checks if the Side value is one of the two known sides.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// UnmarshalYAML decodes a side from its string form.
func (s *Side) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseSide(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// BookSide side of the order book a resting level belongs to.
type BookSide int

const (
	BookSideBid BookSide = iota + 1
	BookSideAsk
)

// String returns the string representation.
func (b BookSide) String() string {
	switch b {
	case BookSideBid:
		return "bid"
	case BookSideAsk:
		return "ask"
	default:
		return "unknown"
	}
}

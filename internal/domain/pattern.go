package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PatternKind identifies a Pattern variant.
type PatternKind string

const (
	PatternKindIceberg    PatternKind = "iceberg"
	PatternKindSpoofing   PatternKind = "spoofing"
	PatternKindSupport    PatternKind = "support"
	PatternKindResistance PatternKind = "resistance"
	PatternKindAbsorption PatternKind = "absorption"
)

// Pattern detected microstructure pattern. The set of implementations is closed:
// IcebergOrder, Spoofing, Support, Resistance and Absorption.
type Pattern interface {
	Kind() PatternKind
	// PatternPrice is the price the pattern is anchored at.
	PatternPrice() decimal.Decimal
	fmt.Stringer

	pattern()
}

// IcebergOrder many fills near one price, likely a hidden large order.
type IcebergOrder struct {
	Price         decimal.Decimal
	EstimatedSize decimal.Decimal
}

// Spoofing unusually large resting level. Size-based only: a single snapshot
// cannot show the order being withdrawn.
type Spoofing struct {
	Price decimal.Decimal
	Side  BookSide
}

// Support large resting bid.
type Support struct {
	Price    decimal.Decimal
	Strength decimal.Decimal
}

// Resistance large resting ask.
type Resistance struct {
	Price    decimal.Decimal
	Strength decimal.Decimal
}

// Absorption large traded volume inside a narrow price range.
type Absorption struct {
	Price  decimal.Decimal
	Volume decimal.Decimal
}

func (IcebergOrder) Kind() PatternKind { return PatternKindIceberg }
func (Spoofing) Kind() PatternKind     { return PatternKindSpoofing }
func (Support) Kind() PatternKind      { return PatternKindSupport }
func (Resistance) Kind() PatternKind   { return PatternKindResistance }
func (Absorption) Kind() PatternKind   { return PatternKindAbsorption }

func (p IcebergOrder) PatternPrice() decimal.Decimal { return p.Price }
func (p Spoofing) PatternPrice() decimal.Decimal     { return p.Price }
func (p Support) PatternPrice() decimal.Decimal      { return p.Price }
func (p Resistance) PatternPrice() decimal.Decimal   { return p.Price }
func (p Absorption) PatternPrice() decimal.Decimal   { return p.Price }

func (p IcebergOrder) String() string {
	return fmt.Sprintf("iceberg @ %s, estimated size %s", p.Price, p.EstimatedSize)
}

func (p Spoofing) String() string {
	return fmt.Sprintf("possible spoofing @ %s on %s side", p.Price, p.Side)
}

func (p Support) String() string {
	return fmt.Sprintf("support @ %s, strength %s", p.Price, p.Strength)
}

func (p Resistance) String() string {
	return fmt.Sprintf("resistance @ %s, strength %s", p.Price, p.Strength)
}

func (p Absorption) String() string {
	return fmt.Sprintf("absorption @ %s, volume %s", p.Price, p.Volume)
}

func (IcebergOrder) pattern() {}
func (Spoofing) pattern()     {}
func (Support) pattern()      {}
func (Resistance) pattern()   {}
func (Absorption) pattern()   {}

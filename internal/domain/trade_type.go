package domain

import "fmt"

// TradeKind classification tag of a single trade.
type TradeKind int

const (
	TradeKindBuy TradeKind = iota + 1
	TradeKindSell
	TradeKindBlock
)

// TradeType result of classifying a trade. Side is set for every kind;
// for blocks it carries the side of the oversized trade.
type TradeType struct {
	Kind TradeKind
	Side Side
}

var (
	TradeTypeBuy  = TradeType{Kind: TradeKindBuy, Side: SideBuy}
	TradeTypeSell = TradeType{Kind: TradeKindSell, Side: SideSell}
)

// TradeTypeBlock returns the block classification for the given side.
func TradeTypeBlock(side Side) TradeType {
	return TradeType{Kind: TradeKindBlock, Side: side}
}

// IsBlock reports whether the trade was classified as a block trade.
func (t TradeType) IsBlock() bool {
	return t.Kind == TradeKindBlock
}

// String returns the string representation.
func (t TradeType) String() string {
	switch t.Kind {
	case TradeKindBuy:
		return "buy"
	case TradeKindSell:
		return "sell"
	case TradeKindBlock:
		return fmt.Sprintf("block(%s)", t.Side)
	default:
		return "unknown"
	}
}

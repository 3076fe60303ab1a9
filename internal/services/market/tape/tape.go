// Package tape analyses trade flow (time and sales).
package tape

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/microstructure/internal/domain"
)

var neutralAggression = decimal.RequireFromString("0.5")

// Pressure traded volume split by aggressor side.
type Pressure struct {
	Buy  decimal.Decimal
	Sell decimal.Decimal
	// Net buy minus sell.
	Net decimal.Decimal
}

// ClassifyTrade tags a trade by its side, or as a block trade when its quantity
// reaches blockThreshold.
func ClassifyTrade(trade domain.Trade, blockThreshold decimal.Decimal) domain.TradeType {
	if trade.Quantity.GreaterThanOrEqual(blockThreshold) {
		return domain.TradeTypeBlock(trade.Side)
	}
	if trade.Side == domain.SideBuy {
		return domain.TradeTypeBuy
	}
	return domain.TradeTypeSell
}

// CalculateTradePressure sums buy and sell volume. All values are zero for an empty batch.
func CalculateTradePressure(trades []domain.Trade) Pressure {
	buy, sell := decimal.Zero, decimal.Zero
	for _, t := range trades {
		switch t.Side {
		case domain.SideBuy:
			buy = buy.Add(t.Quantity)
		case domain.SideSell:
			sell = sell.Add(t.Quantity)
		}
	}
	return Pressure{Buy: buy, Sell: sell, Net: buy.Sub(sell)}
}

// BlockTrades returns trades whose quantity reaches threshold, in input order.
func BlockTrades(trades []domain.Trade, threshold decimal.Decimal) []domain.Trade {
	blocks := make([]domain.Trade, 0)
	for _, t := range trades {
		if t.Quantity.GreaterThanOrEqual(threshold) {
			blocks = append(blocks, t)
		}
	}
	return blocks
}

// CalculateAggressionRatio returns buy volume / total volume in [0, 1].
// With no traded volume the ratio is the neutral 0.5.
func CalculateAggressionRatio(trades []domain.Trade) decimal.Decimal {
	p := CalculateTradePressure(trades)
	total := p.Buy.Add(p.Sell)
	if total.IsZero() {
		return neutralAggression
	}
	return p.Buy.Div(total)
}

// DetectTradeClusters finds bursts of trades. Trades are stably sorted by timestamp;
// a cluster collects consecutive trades no later than timeWindow after the cluster's
// first trade. Returned values are indices into the time-sorted sequence of the first
// trade of every cluster with at least minClusterSize members.
func DetectTradeClusters(trades []domain.Trade, timeWindow int64, minClusterSize int) []int {
	clusters := make([]int, 0)
	if len(trades) == 0 {
		return clusters
	}

	sorted := domain.SortedByTime(trades)

	start, count := 0, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Timestamp-sorted[start].Timestamp <= timeWindow {
			count++
			continue
		}
		if count >= minClusterSize {
			clusters = append(clusters, start)
		}
		start, count = i, 1
	}
	if count >= minClusterSize {
		clusters = append(clusters, start)
	}

	return clusters
}

// CalculateVWAP returns sum(price*quantity) / sum(quantity), or false for an empty
// batch or zero total quantity.
func CalculateVWAP(trades []domain.Trade) (decimal.Decimal, bool) {
	value, volume := decimal.Zero, decimal.Zero
	for _, t := range trades {
		value = value.Add(t.Notional())
		volume = volume.Add(t.Quantity)
	}
	if volume.IsZero() {
		return decimal.Zero, false
	}
	return value.Div(volume), true
}

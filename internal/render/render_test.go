package render

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/microstructure/internal/domain"
	"github.com/vadiminshakov/microstructure/internal/services/market/analysis"
	"go.uber.org/zap"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleBook() domain.OrderBook {
	return domain.OrderBook{
		Bids: []domain.Level{{Price: d("50000"), Quantity: d("1")}, {Price: d("49999"), Quantity: d("2")}},
		Asks: []domain.Level{{Price: d("50001"), Quantity: d("1.5")}, {Price: d("50002"), Quantity: d("0.5")}},
	}
}

func TestDepthChart(t *testing.T) {
	chart := DepthChart(sampleBook())
	require.Contains(t, chart, "Order Book Depth")
	require.Contains(t, chart, "Max Volume: 2")
	require.Contains(t, chart, "ASK")
	require.Contains(t, chart, "BID")
	require.Equal(t, 1, strings.Count(chart, strings.Repeat("▓", 20)))
}

func TestDepthChart_Empty(t *testing.T) {
	require.Equal(t, "No data", DepthChart(domain.OrderBook{}))
}

func TestDepthChart_ZeroQuantityStillDrawn(t *testing.T) {
	ob := domain.OrderBook{Bids: []domain.Level{{Price: d("10"), Quantity: decimal.Zero}}}
	require.Contains(t, DepthChart(ob), "│▓")
}

func TestOrderBook(t *testing.T) {
	out := OrderBook(sampleBook(), 1)
	require.Contains(t, out, "50001")
	require.Contains(t, out, "50000")
	require.NotContains(t, out, "49999")
	require.Less(t, strings.Index(out, "50001"), strings.Index(out, "50000 "))
}

func TestTrades(t *testing.T) {
	trades := []domain.Trade{
		{Price: d("100"), Quantity: d("1"), Side: domain.SideBuy, Timestamp: 1},
		{Price: d("101"), Quantity: d("2"), Side: domain.SideSell, Timestamp: 2},
		{Price: d("102"), Quantity: d("3"), Side: domain.SideBuy, Timestamp: 3},
	}

	out := Trades(trades, 2, d("10"))
	require.Contains(t, out, "BUY")
	require.Contains(t, out, "SELL")
	require.NotContains(t, out, "102")
	require.NotContains(t, out, "BLOCK")
}

func TestTrades_TagsBlocks(t *testing.T) {
	trades := []domain.Trade{
		{Price: d("100"), Quantity: d("1"), Side: domain.SideBuy, Timestamp: 1},
		{Price: d("101"), Quantity: d("7"), Side: domain.SideSell, Timestamp: 2},
	}

	lines := strings.Split(Trades(trades, 10, d("5")), "\n")
	var blocks []string
	for _, l := range lines {
		if strings.Contains(l, "BLOCK") {
			blocks = append(blocks, l)
		}
	}
	require.Len(t, blocks, 1)
	require.Contains(t, blocks[0], "SELL")
	require.Contains(t, blocks[0], "101")
}

func TestReport_TapeMomentumAndSpikes(t *testing.T) {
	trades := make([]domain.Trade, 0, 40)
	for i := 1; i <= 40; i++ {
		qty := d("1")
		if i == 40 {
			qty = d("10")
		}
		trades = append(trades, domain.Trade{
			Price:     decimal.NewFromInt(int64(100 + i)),
			Quantity:  qty,
			Side:      domain.SideBuy,
			Timestamp: int64(i),
		})
	}

	r, err := analysis.NewMarketAnalyzer(zap.NewNop()).Analyze("BTC_USDT", domain.Snapshot{Book: sampleBook(), Trades: trades}, analysis.DefaultParams())
	require.NoError(t, err)
	require.NotNil(t, r.Momentum)
	require.NotNil(t, r.Momentum.MACD)

	out := Report(r)
	require.Contains(t, out, "Volume spike")
	require.Contains(t, out, "very high")
	require.Contains(t, out, "[39] (recent: true)")
	require.Contains(t, out, "bullish")
	require.Contains(t, out, r.Momentum.MACD.String())
}

func TestReport(t *testing.T) {
	snap := domain.Snapshot{
		Book: sampleBook(),
		Trades: []domain.Trade{
			{Price: d("50000"), Quantity: d("1"), Side: domain.SideBuy, Timestamp: 1},
		},
	}
	r, err := analysis.NewMarketAnalyzer(zap.NewNop()).Analyze("BTC_USDT", snap, analysis.DefaultParams())
	require.NoError(t, err)

	out := Report(r)
	require.Contains(t, out, "BTC_USDT")
	require.Contains(t, out, "Spread")
	require.Contains(t, out, "POC")
	require.Contains(t, out, "Patterns")

	empty, err := analysis.NewMarketAnalyzer(zap.NewNop()).Analyze("X_Y", domain.Snapshot{}, analysis.DefaultParams())
	require.NoError(t, err)
	require.Contains(t, Report(empty), "n/a")
	require.Contains(t, Report(empty), "none")
}

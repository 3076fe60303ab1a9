package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/microstructure/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(v int) *int {
	return &v
}

func scenarioBook() domain.OrderBook {
	return domain.OrderBook{
		Bids:      []domain.Level{{Price: d("100.00"), Quantity: d("2")}, {Price: d("99.50"), Quantity: d("3")}},
		Asks:      []domain.Level{{Price: d("100.50"), Quantity: d("1")}, {Price: d("101.00"), Quantity: d("4")}},
		Timestamp: 1000,
	}
}

func sampleBook() domain.OrderBook {
	return domain.OrderBook{
		Bids: []domain.Level{
			{Price: d("50000.00"), Quantity: d("1.5")},
			{Price: d("49999.50"), Quantity: d("2.3")},
			{Price: d("49999.00"), Quantity: d("0.8")},
		},
		Asks: []domain.Level{
			{Price: d("50001.00"), Quantity: d("1.2")},
			{Price: d("50001.50"), Quantity: d("1.8")},
			{Price: d("50002.00"), Quantity: d("2.5")},
		},
		Timestamp: 1696435200,
	}
}

func TestCalculateSpread_Scenario(t *testing.T) {
	spread, ok := CalculateSpread(scenarioBook())
	require.True(t, ok)
	require.Equal(t, "0.5", spread.Absolute.String())

	// 0.5 / 100.25 * 100 ~ 0.4988
	require.True(t, spread.Percentage.GreaterThan(d("0.4987")), spread.Percentage.String())
	require.True(t, spread.Percentage.LessThan(d("0.4988")), spread.Percentage.String())

	mid, ok := MidPrice(scenarioBook())
	require.True(t, ok)
	require.Equal(t, "100.25", mid.String())

	require.True(t, CalculateImbalance(scenarioBook(), nil).IsZero())
}

func TestCalculateSpread_EmptySide(t *testing.T) {
	tests := []struct {
		name string
		ob   domain.OrderBook
	}{
		{name: "empty book", ob: domain.OrderBook{}},
		{name: "no asks", ob: domain.OrderBook{Bids: scenarioBook().Bids}},
		{name: "no bids", ob: domain.OrderBook{Asks: scenarioBook().Asks}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := CalculateSpread(tt.ob)
			assert.False(t, ok)
			_, ok = MidPrice(tt.ob)
			assert.False(t, ok)
		})
	}
}

func TestCalculateSpread_AbsoluteIsAskMinusBid(t *testing.T) {
	ob := sampleBook()
	spread, ok := CalculateSpread(ob)
	require.True(t, ok)

	bid, _ := BestBid(ob)
	ask, _ := BestAsk(ob)
	require.True(t, spread.Absolute.Equal(ask.Sub(bid)))
	require.Equal(t, "1", spread.Absolute.String())
}

func TestCalculateImbalance(t *testing.T) {
	tests := []struct {
		name  string
		ob    domain.OrderBook
		depth *int
		check func(t *testing.T, got decimal.Decimal)
	}{
		{
			name: "all levels",
			ob:   sampleBook(),
			// (4.6 - 5.5) / 10.1 ~ -0.089
			check: func(t *testing.T, got decimal.Decimal) {
				require.True(t, got.GreaterThan(d("-0.1")) && got.LessThan(d("-0.08")), got.String())
			},
		},
		{
			name:  "top level only",
			ob:    sampleBook(),
			depth: intPtr(1),
			// (1.5 - 1.2) / 2.7 ~ 0.111
			check: func(t *testing.T, got decimal.Decimal) {
				require.True(t, got.GreaterThan(d("0.1")) && got.LessThan(d("0.12")), got.String())
			},
		},
		{
			name:  "depth beyond levels is clamped",
			ob:    sampleBook(),
			depth: intPtr(50),
			check: func(t *testing.T, got decimal.Decimal) {
				require.True(t, got.Equal(CalculateImbalance(sampleBook(), nil)))
			},
		},
		{
			name: "zero volume on both sides",
			ob: domain.OrderBook{
				Bids: []domain.Level{{Price: d("10"), Quantity: decimal.Zero}},
				Asks: []domain.Level{{Price: d("11"), Quantity: decimal.Zero}},
			},
			check: func(t *testing.T, got decimal.Decimal) {
				require.True(t, got.IsZero())
			},
		},
		{
			name: "only bids",
			ob:   domain.OrderBook{Bids: []domain.Level{{Price: d("10"), Quantity: d("3")}}},
			check: func(t *testing.T, got decimal.Decimal) {
				require.Equal(t, "1", got.String())
			},
		},
		{
			name: "only asks",
			ob:   domain.OrderBook{Asks: []domain.Level{{Price: d("10"), Quantity: d("3")}}},
			check: func(t *testing.T, got decimal.Decimal) {
				require.Equal(t, "-1", got.String())
			},
		},
		{
			name:  "depth zero",
			ob:    sampleBook(),
			depth: intPtr(0),
			check: func(t *testing.T, got decimal.Decimal) {
				require.True(t, got.IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateImbalance(tt.ob, tt.depth)
			require.True(t, got.GreaterThanOrEqual(d("-1")) && got.LessThanOrEqual(d("1")))
			tt.check(t, got)
		})
	}
}

func TestBestPrices(t *testing.T) {
	ob := sampleBook()

	bid, ok := BestBid(ob)
	require.True(t, ok)
	require.Equal(t, "50000", bid.String())

	ask, ok := BestAsk(ob)
	require.True(t, ok)
	require.Equal(t, "50001", ask.String())

	mid, ok := MidPrice(ob)
	require.True(t, ok)
	require.Equal(t, "50000.5", mid.String())

	_, ok = BestBid(domain.OrderBook{})
	require.False(t, ok)
}

func TestTotalVolume(t *testing.T) {
	ob := sampleBook()

	require.Equal(t, "4.6", TotalVolume(ob.Bids, nil).String())
	require.Equal(t, "5.5", TotalVolume(ob.Asks, nil).String())
	require.Equal(t, "3.8", TotalVolume(ob.Bids, intPtr(2)).String())
	require.Equal(t, "0", TotalVolume(ob.Bids, intPtr(0)).String())
	require.Equal(t, "0", TotalVolume(ob.Bids, intPtr(-3)).String())
	require.Equal(t, "4.6", TotalVolume(ob.Bids, intPtr(10)).String())
	require.Equal(t, "0", TotalVolume(nil, nil).String())
}

func TestDepth(t *testing.T) {
	summary := Depth(sampleBook())

	assert.Equal(t, 3, summary.BidLevels)
	assert.Equal(t, 3, summary.AskLevels)
	assert.Equal(t, "4.6", summary.BidVolume.String())
	assert.Equal(t, "5.5", summary.AskVolume.String())
}

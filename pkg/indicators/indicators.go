// Package indicators computes momentum indicators (EMA, MACD, RSI) over the price series
// of a trade tape using the cinar/indicator library.
package indicators

import (
	"fmt"
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/microstructure/internal/domain"
)

const (
	DefaultFastPeriod = 9
	DefaultSlowPeriod = 21
	DefaultRSIPeriod  = 14
)

// MACDMinPoints prices needed before the default MACD yields its first value
// (slow EMA plus signal EMA warmup).
var MACDMinPoints = trend.NewMacd[float64]().IdlePeriod() + 1

// Momentum latest indicator values of a trade price series.
type Momentum struct {
	// EMAFast fast exponential moving average of trade prices.
	EMAFast decimal.Decimal
	// EMASlow slow exponential moving average of trade prices.
	EMASlow decimal.Decimal
	// RSI relative strength index of trade prices.
	RSI decimal.Decimal
	// MACD is only set once the tape holds enough trades.
	MACD *decimal.Decimal
}

// Bullish reports whether the fast average is above the slow one.
func (m Momentum) Bullish() bool {
	return m.EMAFast.GreaterThan(m.EMASlow)
}

// PriceSeries returns trade prices in timestamp order.
func PriceSeries(trades []domain.Trade) []decimal.Decimal {
	sorted := domain.SortedByTime(trades)
	prices := make([]decimal.Decimal, len(sorted))
	for i, t := range sorted {
		prices[i] = t.Price
	}
	return prices
}

// CalculateMomentum computes the default indicator set over the tape. It fails when
// the tape is shorter than the slow EMA or RSI warmup.
func CalculateMomentum(trades []domain.Trade) (Momentum, error) {
	prices := PriceSeries(trades)

	fast, err := CalculateEMA(prices, DefaultFastPeriod)
	if err != nil {
		return Momentum{}, fmt.Errorf("failed to calculate fast EMA: %w", err)
	}
	slow, err := CalculateEMA(prices, DefaultSlowPeriod)
	if err != nil {
		return Momentum{}, fmt.Errorf("failed to calculate slow EMA: %w", err)
	}
	rsi, err := CalculateRSI(prices, DefaultRSIPeriod)
	if err != nil {
		return Momentum{}, fmt.Errorf("failed to calculate RSI: %w", err)
	}

	m := Momentum{
		EMAFast: last(fast),
		EMASlow: last(slow),
		RSI:     last(rsi),
	}

	if len(prices) >= MACDMinPoints {
		macd, err := CalculateMACD(prices)
		if err != nil {
			return Momentum{}, fmt.Errorf("failed to calculate MACD: %w", err)
		}
		v := last(macd)
		m.MACD = &v
	}

	return m, nil
}

// CalculateEMA calculates the Exponential Moving Average for the given period.
func CalculateEMA(prices []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if period <= 0 || len(prices) < period {
		return nil, fmt.Errorf("not enough data points: need %d, got %d", period, len(prices))
	}

	ema := trend.NewEmaWithPeriod[float64](period)
	out := ema.Compute(helper.SliceToChan(decimalsToFloat64(prices)))

	return float64ToDecimals(helper.ChanToSlice(out)), nil
}

// CalculateMACD calculates MACD line values.
func CalculateMACD(prices []decimal.Decimal) ([]decimal.Decimal, error) {
	if len(prices) < MACDMinPoints {
		return nil, fmt.Errorf("not enough data points for MACD: need at least %d, got %d", MACDMinPoints, len(prices))
	}

	macd := trend.NewMacd[float64]()
	macdChan, signalChan := macd.Compute(helper.SliceToChan(decimalsToFloat64(prices)))
	// drain signal channel to prevent blocking
	go func() {
		for range signalChan {
		}
	}()

	values := helper.ChanToSlice(macdChan)
	if len(values) == 0 {
		return nil, fmt.Errorf("MACD produced no values for %d data points", len(prices))
	}

	return float64ToDecimals(values), nil
}

// CalculateRSI calculates the Relative Strength Index for the given period.
func CalculateRSI(prices []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if period <= 0 || len(prices) < period+1 {
		return nil, fmt.Errorf("not enough data points for RSI: need %d, got %d", period+1, len(prices))
	}

	rsi := momentum.NewRsiWithPeriod[float64](period)
	out := rsi.Compute(helper.SliceToChan(decimalsToFloat64(prices)))

	return float64ToDecimals(helper.ChanToSlice(out)), nil
}

func last(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return values[len(values)-1]
}

func decimalsToFloat64(decimals []decimal.Decimal) []float64 {
	result := make([]float64, len(decimals))
	for i, d := range decimals {
		result[i], _ = d.Float64()
	}
	return result
}

func float64ToDecimals(floats []float64) []decimal.Decimal {
	result := make([]decimal.Decimal, len(floats))
	for i, f := range floats {
		// flat series make RSI divide 0 by 0
		if math.IsNaN(f) || math.IsInf(f, 0) {
			result[i] = decimal.Zero
			continue
		}
		result[i] = decimal.NewFromFloat(f)
	}
	return result
}

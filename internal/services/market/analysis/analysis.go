// Package analysis runs every analytic component over one snapshot and collects the
// results into a report.
package analysis

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/microstructure/internal/domain"
	"github.com/vadiminshakov/microstructure/internal/services/market/book"
	"github.com/vadiminshakov/microstructure/internal/services/market/metrics"
	"github.com/vadiminshakov/microstructure/internal/services/market/patterns"
	"github.com/vadiminshakov/microstructure/internal/services/market/tape"
	"github.com/vadiminshakov/microstructure/pkg/indicators"
	"go.uber.org/zap"
)

// Params thresholds and window sizes for one analysis run.
type Params struct {
	// Depth number of levels used for the depth-limited imbalance.
	Depth int
	// BlockThreshold minimum quantity of a block trade.
	BlockThreshold decimal.Decimal
	// ClusterWindow maximum time span of a trade cluster.
	ClusterWindow int64
	// ClusterMinSize minimum number of trades in a reported cluster.
	ClusterMinSize int
	// TickSize volume profile bucket size.
	TickSize decimal.Decimal
	// IcebergMinFills minimum fills of an iceberg group.
	IcebergMinFills int
	// IcebergTolerance price tolerance of an iceberg group.
	IcebergTolerance decimal.Decimal
	// SpoofingThreshold level quantity flagged as possible spoofing.
	SpoofingThreshold decimal.Decimal
	// LevelThreshold level quantity reported as support or resistance.
	LevelThreshold decimal.Decimal
	// AbsorptionVolume minimum volume of an absorption window.
	AbsorptionVolume decimal.Decimal
	// AbsorptionRange maximum price excursion of an absorption window.
	AbsorptionRange decimal.Decimal
}

// DefaultParams returns the thresholds used by the demo snapshots.
func DefaultParams() Params {
	return Params{
		Depth:             5,
		BlockThreshold:    decimal.NewFromInt(5),
		ClusterWindow:     2,
		ClusterMinSize:    3,
		TickSize:          decimal.NewFromInt(1),
		IcebergMinFills:   3,
		IcebergTolerance:  decimal.NewFromInt(1),
		SpoofingThreshold: decimal.NewFromInt(50),
		LevelThreshold:    decimal.NewFromInt(8),
		AbsorptionVolume:  decimal.NewFromInt(10),
		AbsorptionRange:   decimal.NewFromInt(1),
	}
}

// Report analytics of one order book snapshot and trade batch.
type Report struct {
	ID     string
	Symbol string

	Spread           *book.Spread
	MidPrice         *decimal.Decimal
	WeightedMidPrice *decimal.Decimal
	Imbalance        decimal.Decimal
	DepthImbalance   decimal.Decimal
	Depth            book.DepthSummary

	TradeCount      int
	Pressure        tape.Pressure
	AggressionRatio decimal.Decimal
	VWAP            *decimal.Decimal
	BlockTrades     []domain.Trade
	Clusters        []int
	Volume          domain.VolumeAnalysis
	// Momentum is nil when the tape is too short for the indicators.
	Momentum *indicators.Momentum

	Profile domain.VolumeProfile
	Delta   decimal.Decimal
	CVD     []metrics.CVDPoint

	// Patterns from all detectors, ascending by price.
	Patterns []domain.Pattern
}

// MarketAnalyzer analyzes order book and tape snapshots.
type MarketAnalyzer struct {
	logger *zap.Logger
}

// NewMarketAnalyzer creates a new MarketAnalyzer instance.
func NewMarketAnalyzer(logger *zap.Logger) *MarketAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketAnalyzer{
		logger: logger,
	}
}

// Analyze runs book, tape, metrics and pattern analytics over the snapshot.
func (m *MarketAnalyzer) Analyze(symbol string, snap domain.Snapshot, params Params) (Report, error) {
	logger := m.logger.With(zap.String("symbol", symbol))

	if snap.Book.IsEmpty() {
		logger.Warn("empty order book, book metrics unavailable")
	}
	if len(snap.Trades) == 0 {
		logger.Warn("no trades for tape analysis")
	}

	report := Report{
		ID:     uuid.NewString(),
		Symbol: symbol,
	}

	m.analyzeBook(&report, snap.Book, params)
	m.analyzeTape(logger, &report, snap.Trades, params)

	profile, err := metrics.CalculateVolumeProfile(snap.Trades, params.TickSize)
	if err != nil {
		return Report{}, err
	}
	report.Profile = profile
	report.Delta = metrics.CalculateDelta(snap.Trades)
	report.CVD = metrics.CalculateCVD(snap.Trades)

	report.Patterns = detectPatterns(snap, params)

	logger.Debug("analysis complete",
		zap.String("report_id", report.ID),
		zap.Int("trades", len(snap.Trades)),
		zap.Int("patterns", len(report.Patterns)),
		zap.String("delta", report.Delta.String()))

	return report, nil
}

func (m *MarketAnalyzer) analyzeBook(report *Report, ob domain.OrderBook, params Params) {
	if spread, ok := book.CalculateSpread(ob); ok {
		report.Spread = &spread
	}
	if mid, ok := book.MidPrice(ob); ok {
		report.MidPrice = &mid
	}
	if wmp, ok := metrics.WeightedMidPrice(ob); ok {
		report.WeightedMidPrice = &wmp
	}

	depth := params.Depth
	report.Imbalance = book.CalculateImbalance(ob, nil)
	report.DepthImbalance = book.CalculateImbalance(ob, &depth)
	report.Depth = book.Depth(ob)
}

func (m *MarketAnalyzer) analyzeTape(logger *zap.Logger, report *Report, trades []domain.Trade, params Params) {
	report.TradeCount = len(trades)
	report.Pressure = tape.CalculateTradePressure(trades)
	report.AggressionRatio = tape.CalculateAggressionRatio(trades)
	if vwap, ok := tape.CalculateVWAP(trades); ok {
		report.VWAP = &vwap
	}
	report.BlockTrades = tape.BlockTrades(trades, params.BlockThreshold)
	report.Clusters = tape.DetectTradeClusters(trades, params.ClusterWindow, params.ClusterMinSize)
	report.Volume = domain.NewVolumeAnalysis(trades)

	momentum, err := indicators.CalculateMomentum(trades)
	if err != nil {
		logger.Debug("tape momentum skipped", zap.Error(err))
		return
	}
	report.Momentum = &momentum
}

func detectPatterns(snap domain.Snapshot, params Params) []domain.Pattern {
	found := make([]domain.Pattern, 0)
	found = append(found, patterns.DetectIcebergOrders(snap.Trades, params.IcebergMinFills, params.IcebergTolerance)...)
	found = append(found, patterns.DetectSpoofing(snap.Book, params.SpoofingThreshold)...)
	found = append(found, patterns.DetectSupportResistance(snap.Book, params.LevelThreshold)...)
	found = append(found, patterns.DetectAbsorption(snap.Trades, params.AbsorptionVolume, params.AbsorptionRange)...)

	return patterns.SortByPrice(found)
}

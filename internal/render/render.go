// Package render formats books, tapes and analysis reports as terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/microstructure/internal/domain"
	"github.com/vadiminshakov/microstructure/internal/services/market/analysis"
	"github.com/vadiminshakov/microstructure/internal/services/market/tape"
	"github.com/vadiminshakov/microstructure/pkg/indicators"
)

const (
	chartWidth       = 20
	chartLevels      = 5
	sizeBarScale     = 2
	sizeBarMax       = 40
	separatorWidth   = 50
	chartSeparatorWd = 40
)

// recentSpikeTrades trades counted as recent for the spike flag.
const recentSpikeTrades = 5

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	bidColor  = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#73F59F"}
	askColor  = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	bidStyle   = lipgloss.NewStyle().Foreground(bidColor)
	askStyle   = lipgloss.NewStyle().Foreground(askColor)
	labelStyle = lipgloss.NewStyle().Faint(true)
)

// OrderBook renders up to levels price levels per side, asks above bids.
func OrderBook(ob domain.OrderBook, levels int) string {
	levels = max(levels, 0)

	var b strings.Builder
	b.WriteString(titleStyle.Render("=== Order Book ===") + "\n")
	fmt.Fprintf(&b, "Timestamp: %d\n\n", ob.Timestamp)

	b.WriteString("Asks (Sell Orders):\n")
	asks := ob.Asks[:min(levels, len(ob.Asks))]
	for i := len(asks) - 1; i >= 0; i-- {
		b.WriteString(askStyle.Render(levelLine(asks[i])) + "\n")
	}
	b.WriteString(strings.Repeat("─", separatorWidth) + "\n")
	for _, l := range ob.Bids[:min(levels, len(ob.Bids))] {
		b.WriteString(bidStyle.Render(levelLine(l)) + "\n")
	}
	b.WriteString("Bids (Buy Orders):\n")

	return b.String()
}

func levelLine(l domain.Level) string {
	bars := int(l.Quantity.Mul(decimal.NewFromInt(sizeBarScale)).IntPart())
	return fmt.Sprintf("  $%-12s | %s %s", l.Price, strings.Repeat("█", min(max(bars, 0), sizeBarMax)), l.Quantity)
}

// Trades renders the first limit trades of the tape. Trades reaching blockThreshold
// are tagged as blocks.
func Trades(trades []domain.Trade, limit int, blockThreshold decimal.Decimal) string {
	limit = max(limit, 0)

	var b strings.Builder
	b.WriteString(titleStyle.Render("=== Trade Tape ===") + "\n")
	fmt.Fprintf(&b, "%-12s %-12s %-12s %-10s\n", "Time", "Price", "Quantity", "Side")
	b.WriteString(strings.Repeat("─", separatorWidth) + "\n")

	for _, t := range trades[:min(limit, len(trades))] {
		kind := tape.ClassifyTrade(t, blockThreshold)
		side := bidStyle.Render("BUY")
		if kind.Side == domain.SideSell {
			side = askStyle.Render("SELL")
		}
		if kind.IsBlock() {
			side += " " + titleStyle.Render("BLOCK")
		}
		fmt.Fprintf(&b, "%-12d $%-11s %-12s %s\n", t.Timestamp, t.Price, t.Quantity, side)
	}

	return b.String()
}

// DepthChart renders a horizontal bar chart of the five best levels per side,
// scaled to the largest level quantity.
func DepthChart(ob domain.OrderBook) string {
	if ob.IsEmpty() {
		return "No data"
	}

	maxQty := decimal.Zero
	for _, l := range append(append([]domain.Level(nil), ob.Bids...), ob.Asks...) {
		maxQty = decimal.Max(maxQty, l.Quantity)
	}

	var b strings.Builder
	b.WriteString("Order Book Depth:\n")
	fmt.Fprintf(&b, "Max Volume: %s\n\n", maxQty)

	asks := ob.Asks[:min(chartLevels, len(ob.Asks))]
	for i := len(asks) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "$%-10s ASK │%s\n", asks[i].Price, askStyle.Render(depthBar(asks[i].Quantity, maxQty)))
	}
	b.WriteString(strings.Repeat("─", chartSeparatorWd) + "\n")
	for _, l := range ob.Bids[:min(chartLevels, len(ob.Bids))] {
		fmt.Fprintf(&b, "$%-10s BID │%s\n", l.Price, bidStyle.Render(depthBar(l.Quantity, maxQty)))
	}

	return b.String()
}

// depthBar draws at least one block so empty levels stay visible.
func depthBar(qty, maxQty decimal.Decimal) string {
	bars := 0
	if maxQty.IsPositive() {
		bars = int(qty.Div(maxQty).Mul(decimal.NewFromInt(chartWidth)).IntPart())
	}
	return strings.Repeat("▓", max(bars, 1))
}

// Report renders an analysis report.
func Report(r analysis.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("=== %s ===", r.Symbol)) + "\n")

	section := func(name string) {
		b.WriteString("\n" + titleStyle.Render(name) + "\n")
	}
	line := func(label string, value any) {
		fmt.Fprintf(&b, "  %s %v\n", labelStyle.Render(fmt.Sprintf("%-20s", label+":")), value)
	}

	section("Book")
	if r.Spread != nil {
		line("Spread", fmt.Sprintf("%s (%s%%)", r.Spread.Absolute, r.Spread.Percentage.StringFixed(4)))
	} else {
		line("Spread", "n/a")
	}
	line("Mid price", optional(r.MidPrice))
	line("Weighted mid", optional(r.WeightedMidPrice))
	line("Imbalance", r.Imbalance.StringFixed(4))
	line("Depth imbalance", r.DepthImbalance.StringFixed(4))
	line("Levels bid/ask", fmt.Sprintf("%d/%d", r.Depth.BidLevels, r.Depth.AskLevels))

	section("Tape")
	line("Buy volume", r.Pressure.Buy)
	line("Sell volume", r.Pressure.Sell)
	line("Net volume", r.Pressure.Net)
	line("Aggression", r.AggressionRatio.StringFixed(4))
	line("VWAP", optional(r.VWAP))
	line("Block trades", len(r.BlockTrades))
	line("Clusters", r.Clusters)
	line("Relative size", r.Volume.RelativeVolume.StringFixed(2))
	line("Volume spike", spikeLabel(r.Volume))
	line("Spike trades", fmt.Sprintf("%v (recent: %t)", r.Volume.VolumeSpikes,
		r.Volume.HasRecentSpike(recentSpikeTrades, r.TradeCount)))
	if r.Momentum != nil {
		line("EMA fast/slow", fmt.Sprintf("%s / %s", r.Momentum.EMAFast.StringFixed(2), r.Momentum.EMASlow.StringFixed(2)))
		line("Trend", trendLabel(*r.Momentum))
		line("RSI", r.Momentum.RSI.StringFixed(2))
		line("MACD", optional(r.Momentum.MACD))
	}

	section("Metrics")
	line("Delta", r.Delta)
	if len(r.CVD) > 0 {
		line("CVD", r.CVD[len(r.CVD)-1].Delta)
	}
	line("POC", optional(r.Profile.POC))
	line("Value area", fmt.Sprintf("%s - %s", optional(r.Profile.VAL), optional(r.Profile.VAH)))

	section("Patterns")
	if len(r.Patterns) == 0 {
		b.WriteString("  none\n")
	}
	for _, p := range r.Patterns {
		b.WriteString("  " + p.String() + "\n")
	}

	return b.String()
}

func spikeLabel(v domain.VolumeAnalysis) string {
	switch {
	case v.IsVeryHighVolume():
		return "very high"
	case v.HasSpike():
		return "yes"
	default:
		return "no"
	}
}

func trendLabel(m indicators.Momentum) string {
	if m.Bullish() {
		return "bullish"
	}
	return "bearish"
}

func optional(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return d.String()
}

// Command microstructure analyses order book snapshots and trade tapes.
// It runs book, tape, metrics and pattern analytics for every configured
// instrument and prints the results.
//
// Usage:
//
//	microstructure --config config.yaml
//	microstructure --pair BTC_USDT --snapshot snapshot.yaml
//	microstructure --setup
//
// Environment variables (also read from .env):
//
//	LOG_LEVEL  debug, info, warn, error (default info)
//	LOG_FORMAT json or console (default json)
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/microstructure/config"
	"github.com/vadiminshakov/microstructure/internal/domain"
	"github.com/vadiminshakov/microstructure/internal/render"
	"github.com/vadiminshakov/microstructure/internal/services/market/analysis"
	"github.com/vadiminshakov/microstructure/internal/setup"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed sample.yaml
var sampleSnapshot []byte

const tapeLimit = 20

func main() {
	flags, help, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if help {
		return
	}

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := env.Logger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if flags.Setup {
		path, err := setup.RunTUI()
		if err != nil {
			logger.Fatal("setup failed", zap.Error(err))
		}
		flags.ConfigPath = path
	}

	configs, err := config.Get(flags)
	if err != nil {
		logger.Fatal("failed to get configuration", zap.Error(err))
	}

	outputs, err := run(logger, configs)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}
	for _, out := range outputs {
		fmt.Println(out)
	}
}

// parseArgs parses the command line; help is true when usage was requested and printed.
func parseArgs(args []string) (flags config.Flags, help bool, err error) {
	flags, err = config.ParseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return config.Flags{}, true, nil
	}
	return flags, false, err
}

// run analyses every config concurrently and returns the rendered outputs in config order.
func run(logger *zap.Logger, configs []config.Config) ([]string, error) {
	analyzer := analysis.NewMarketAnalyzer(logger)
	outputs := make([]string, len(configs))

	g := new(errgroup.Group)
	for i, c := range configs {
		i, c := i, c
		g.Go(func() error {
			snap, err := loadSnapshot(c.SnapshotPath)
			if err != nil {
				return fmt.Errorf("%s: %w", c.Pair.String(), err)
			}

			report, err := analyzer.Analyze(c.Pair.String(), snap, c.Params)
			if err != nil {
				return fmt.Errorf("%s: %w", c.Pair.String(), err)
			}

			outputs[i] = render.OrderBook(snap.Book, c.RenderLevels) + "\n" +
				render.Trades(snap.Trades, tapeLimit, c.Params.BlockThreshold) + "\n" +
				render.DepthChart(snap.Book) + "\n" +
				render.Report(report)

			logger.Info("analyzed",
				zap.String("pair", c.Pair.String()),
				zap.String("report_id", report.ID),
				zap.Int("patterns", len(report.Patterns)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func loadSnapshot(path string) (domain.Snapshot, error) {
	if path == "" {
		return domain.ParseSnapshot(sampleSnapshot)
	}
	return domain.LoadSnapshot(path)
}

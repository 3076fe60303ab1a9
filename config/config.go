// Package config loads analysis settings from a yaml file or command-line flags,
// and process settings from the environment.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/microstructure/internal/domain"
	"github.com/vadiminshakov/microstructure/internal/services/market/analysis"
	"gopkg.in/yaml.v3"
)

const defaultRenderLevels = 10

// Config analysis settings for one instrument.
type Config struct {
	Pair domain.Pair
	// SnapshotPath yaml snapshot to analyze; empty means the built-in sample.
	SnapshotPath string
	// RenderLevels book levels printed per side.
	RenderLevels int
	Params       analysis.Params
}

// ConfigTmp raw yaml form of Config. Decimals are kept as strings so that
// "0.1" is not rounded through float64.
type ConfigTmp struct {
	Pair                 string `yaml:"pair"`
	Snapshot             string `yaml:"snapshot,omitempty"`
	RenderLevels         int    `yaml:"render_levels,omitempty"`
	Depth                string `yaml:"depth,omitempty"`
	BlockThreshold       string `yaml:"block_threshold,omitempty"`
	ClusterWindow        string `yaml:"cluster_window,omitempty"`
	ClusterMinSize       string `yaml:"cluster_min_size,omitempty"`
	TickSize             string `yaml:"tick_size,omitempty"`
	IcebergMinFills      string `yaml:"iceberg_min_fills,omitempty"`
	IcebergTolerance     string `yaml:"iceberg_tolerance,omitempty"`
	SpoofingThreshold    string `yaml:"spoofing_threshold,omitempty"`
	LevelThreshold       string `yaml:"level_threshold,omitempty"`
	AbsorptionVolume     string `yaml:"absorption_volume,omitempty"`
	AbsorptionPriceRange string `yaml:"absorption_price_range,omitempty"`
}

// Flags command-line options.
type Flags struct {
	ConfigPath string
	Setup      bool
	Pair       string
	Snapshot   string
}

// ParseFlags parses command-line arguments (without the program name).
func ParseFlags(args []string) (Flags, error) {
	fs := flag.NewFlagSet("microstructure", flag.ContinueOnError)

	var f Flags
	fs.StringVar(&f.ConfigPath, "config", "", "path to yaml config")
	fs.BoolVar(&f.Setup, "setup", false, "run the interactive config wizard")
	fs.StringVar(&f.Pair, "pair", "BTC_USDT", "trade pair, example: BTC_USDT")
	fs.StringVar(&f.Snapshot, "snapshot", "", "path to yaml snapshot with book and trades")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	return f, nil
}

// Get returns the configs selected by the flags: the yaml list when --config is set,
// otherwise a single config with default thresholds.
func Get(f Flags) ([]Config, error) {
	if f.ConfigPath != "" {
		return getYaml(f.ConfigPath)
	}

	pair, err := getPairFromString(f.Pair)
	if err != nil {
		return nil, fmt.Errorf("invalid --pair provided, --pair=%s", f.Pair)
	}

	return []Config{
		{
			Pair:         pair,
			SnapshotPath: f.Snapshot,
			RenderLevels: defaultRenderLevels,
			Params:       analysis.DefaultParams(),
		},
	}, nil
}

// getYaml loads a config file. Relative snapshot paths are resolved against the
// config file's directory.
func getYaml(path string) ([]Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	configs, err := Parse(f)
	if err != nil {
		return nil, err
	}
	for i := range configs {
		sp := configs[i].SnapshotPath
		if sp != "" && !filepath.IsAbs(sp) {
			configs[i].SnapshotPath = filepath.Join(filepath.Dir(path), sp)
		}
	}
	return configs, nil
}

// Parse decodes a yaml list of configs, filling unset fields with defaults.
func Parse(data []byte) ([]Config, error) {
	var configsTmp []ConfigTmp
	if err := yaml.Unmarshal(data, &configsTmp); err != nil {
		return nil, errors.Wrap(err, "decode yaml config")
	}

	configs := make([]Config, 0, len(configsTmp))
	for _, c := range configsTmp {
		cfg, err := fromTmp(c)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func fromTmp(c ConfigTmp) (Config, error) {
	pair, err := getPairFromString(c.Pair)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'pair' param in yaml config: %s, error: %w", c.Pair, err)
	}

	cfg := Config{
		Pair:         pair,
		SnapshotPath: c.Snapshot,
		RenderLevels: c.RenderLevels,
		Params:       analysis.DefaultParams(),
	}
	if cfg.RenderLevels <= 0 {
		cfg.RenderLevels = defaultRenderLevels
	}

	p := &cfg.Params
	ints := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"depth", c.Depth, &p.Depth},
		{"cluster_min_size", c.ClusterMinSize, &p.ClusterMinSize},
		{"iceberg_min_fills", c.IcebergMinFills, &p.IcebergMinFills},
	}
	for _, f := range ints {
		if f.raw == "" {
			continue
		}
		v, err := strconv.Atoi(f.raw)
		if err != nil || v < 0 {
			return Config{}, fmt.Errorf("incorrect '%s' param in yaml config (must be a non-negative integer): %s", f.name, f.raw)
		}
		*f.dst = v
	}

	if c.ClusterWindow != "" {
		window, err := strconv.ParseInt(c.ClusterWindow, 10, 64)
		if err != nil || window < 0 {
			return Config{}, fmt.Errorf("incorrect 'cluster_window' param in yaml config (must be a non-negative integer): %s", c.ClusterWindow)
		}
		p.ClusterWindow = window
	}

	decimals := []struct {
		name     string
		raw      string
		dst      *decimal.Decimal
		positive bool
	}{
		{"block_threshold", c.BlockThreshold, &p.BlockThreshold, false},
		{"tick_size", c.TickSize, &p.TickSize, true},
		{"iceberg_tolerance", c.IcebergTolerance, &p.IcebergTolerance, false},
		{"spoofing_threshold", c.SpoofingThreshold, &p.SpoofingThreshold, false},
		{"level_threshold", c.LevelThreshold, &p.LevelThreshold, false},
		{"absorption_volume", c.AbsorptionVolume, &p.AbsorptionVolume, false},
		{"absorption_price_range", c.AbsorptionPriceRange, &p.AbsorptionRange, false},
	}
	for _, f := range decimals {
		if f.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect '%s' param in yaml config (must be a decimal), error: %w", f.name, err)
		}
		if v.IsNegative() || f.positive && v.IsZero() {
			return Config{}, fmt.Errorf("incorrect '%s' param in yaml config: %s is out of range", f.name, f.raw)
		}
		*f.dst = v
	}

	return cfg, nil
}

func getPairFromString(pairStr string) (domain.Pair, error) {
	pairElements := strings.Split(pairStr, "_")
	if len(pairElements) != 2 || pairElements[0] == "" || pairElements[1] == "" {
		return domain.Pair{}, fmt.Errorf("invalid pair param")
	}
	return domain.Pair{From: pairElements[0], To: pairElements[1]}, nil
}

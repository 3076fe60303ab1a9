package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/microstructure/internal/services/market/analysis"
)

func TestParse_Defaults(t *testing.T) {
	configs, err := Parse([]byte("- pair: BTC_USDT\n"))
	require.NoError(t, err)
	require.Len(t, configs, 1)

	c := configs[0]
	assert.Equal(t, "BTC_USDT", c.Pair.String())
	assert.Equal(t, defaultRenderLevels, c.RenderLevels)
	assert.Equal(t, analysis.DefaultParams(), c.Params)
}

func TestParse_Overrides(t *testing.T) {
	data := []byte(`
- pair: ETH_USDT
  snapshot: eth.yaml
  render_levels: 3
  depth: "2"
  block_threshold: "12.5"
  cluster_window: "60"
  cluster_min_size: "4"
  tick_size: "0.1"
  iceberg_min_fills: "5"
  iceberg_tolerance: "0.05"
  spoofing_threshold: "1000"
  level_threshold: "250"
  absorption_volume: "40"
  absorption_price_range: "0.5"
- pair: SOL_USDT
`)
	configs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	c := configs[0]
	assert.Equal(t, "eth.yaml", c.SnapshotPath)
	assert.Equal(t, 3, c.RenderLevels)
	assert.Equal(t, 2, c.Params.Depth)
	assert.Equal(t, "12.5", c.Params.BlockThreshold.String())
	assert.Equal(t, int64(60), c.Params.ClusterWindow)
	assert.Equal(t, 4, c.Params.ClusterMinSize)
	assert.Equal(t, "0.1", c.Params.TickSize.String())
	assert.Equal(t, 5, c.Params.IcebergMinFills)
	assert.Equal(t, "0.05", c.Params.IcebergTolerance.String())
	assert.Equal(t, "1000", c.Params.SpoofingThreshold.String())
	assert.Equal(t, "250", c.Params.LevelThreshold.String())
	assert.Equal(t, "40", c.Params.AbsorptionVolume.String())
	assert.Equal(t, "0.5", c.Params.AbsorptionRange.String())

	assert.Equal(t, "SOL_USDT", configs[1].Pair.String())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad pair", data: "- pair: BTCUSDT\n"},
		{name: "zero tick size", data: "- pair: BTC_USDT\n  tick_size: \"0\"\n"},
		{name: "negative threshold", data: "- pair: BTC_USDT\n  block_threshold: \"-1\"\n"},
		{name: "non-numeric depth", data: "- pair: BTC_USDT\n  depth: five\n"},
		{name: "bad window", data: "- pair: BTC_USDT\n  cluster_window: \"1.5\"\n"},
		{name: "not a list", data: "pair: BTC_USDT\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	f, err := ParseFlags([]string{"--pair", "ETH_BTC", "--snapshot", "s.yaml"})
	require.NoError(t, err)

	configs, err := Get(f)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "ETH_BTC", configs[0].Pair.String())
	assert.Equal(t, "s.yaml", configs[0].SnapshotPath)

	_, err = Get(Flags{Pair: "bad"})
	require.Error(t, err)
}

func TestGet_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- pair: BTC_USDT\n  tick_size: \"5\"\n"), 0o600))

	configs, err := Get(Flags{ConfigPath: path})
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "5", configs[0].Params.TickSize.String())

	_, err = Get(Flags{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestGet_SnapshotRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "abs.yaml")
	data := "- pair: BTC_USDT\n  snapshot: snaps/btc.yaml\n" +
		"- pair: ETH_USDT\n  snapshot: " + abs + "\n" +
		"- pair: SOL_USDT\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	configs, err := Get(Flags{ConfigPath: path})
	require.NoError(t, err)
	require.Len(t, configs, 3)
	assert.Equal(t, filepath.Join(dir, "snaps", "btc.yaml"), configs[0].SnapshotPath)
	assert.Equal(t, abs, configs[1].SnapshotPath)
	assert.Empty(t, configs[2].SnapshotPath)
}

func TestGet_ExampleConfig(t *testing.T) {
	configs, err := Get(Flags{ConfigPath: filepath.Join("..", "config.example.yaml")})
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "BTC_USDT", configs[0].Pair.String())
	assert.Equal(t, 5, configs[0].RenderLevels)
	assert.Equal(t, analysis.DefaultParams().SpoofingThreshold.String(), configs[0].Params.SpoofingThreshold.String())

	assert.Equal(t, "ETH_USDT", configs[1].Pair.String())
	assert.Equal(t, defaultRenderLevels, configs[1].RenderLevels)
	assert.Equal(t, "0.5", configs[1].Params.TickSize.String())
	assert.Equal(t, "200", configs[1].Params.SpoofingThreshold.String())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "debug", env.LogLevel)
	assert.Equal(t, "console", env.LogFormat)

	logger, err := env.Logger()
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = Env{LogLevel: "loud"}.Logger()
	require.Error(t, err)
}

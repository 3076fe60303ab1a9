// Package setup provides the interactive wizard that writes an analysis config.
package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/microstructure/config"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile file the wizard writes to.
const DefaultConfigFile = "config.gen.yaml"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// Answers values collected by the wizard, all kept as entered.
type Answers struct {
	Pair                 string
	Snapshot             string
	Depth                string
	SpoofingThreshold    string
	LevelThreshold       string
	BlockThreshold       string
	ClusterWindow        string
	ClusterMinSize       string
	TickSize             string
	IcebergMinFills      string
	IcebergTolerance     string
	AbsorptionVolume     string
	AbsorptionPriceRange string
}

// DefaultAnswers pre-fills the wizard inputs.
func DefaultAnswers() Answers {
	return Answers{
		Pair:                 "BTC_USDT",
		Depth:                "5",
		SpoofingThreshold:    "50",
		LevelThreshold:       "8",
		BlockThreshold:       "5",
		ClusterWindow:        "2",
		ClusterMinSize:       "3",
		TickSize:             "1",
		IcebergMinFills:      "3",
		IcebergTolerance:     "1",
		AbsorptionVolume:     "10",
		AbsorptionPriceRange: "1",
	}
}

// RunTUI launches the terminal configuration wizard and returns the written file path.
func RunTUI() (string, error) {
	a := DefaultAnswers()
	var confirm bool

	step := func(title string) {
		fmt.Print("\033[H\033[2J")
		fmt.Println(headerStyle.Render("MICROSTRUCTURE CONFIG WIZARD"))
		fmt.Println(stepStyle.Render(title))
	}

	step("STEP 1: INSTRUMENT")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Thresholds for book, tape and pattern analytics.\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trading Pair").
				Description("Must contain underscore (e.g. BTC_USDT)").
				Value(&a.Pair).
				Validate(validatePair),
			huh.NewInput().
				Title("Snapshot file").
				Description("Yaml file with book and trades, empty for the built-in sample").
				Value(&a.Snapshot),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("STEP 2: ORDER BOOK")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Imbalance depth").Description("Levels per side").
				Value(&a.Depth).Validate(validateCount),
			huh.NewInput().Title("Spoofing threshold").Description("Level quantity flagged as possible spoofing").
				Value(&a.SpoofingThreshold).Validate(validateDecimal),
			huh.NewInput().Title("Support/resistance threshold").Description("Level quantity reported as support or resistance").
				Value(&a.LevelThreshold).Validate(validateDecimal),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("STEP 3: TAPE")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Block trade size").
				Value(&a.BlockThreshold).Validate(validateDecimal),
			huh.NewInput().Title("Cluster window").Description("Same unit as trade timestamps").
				Value(&a.ClusterWindow).Validate(validateCount),
			huh.NewInput().Title("Cluster minimum size").
				Value(&a.ClusterMinSize).Validate(validateCount),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("STEP 4: PROFILE AND PATTERNS")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Volume profile tick size").
				Value(&a.TickSize).Validate(validatePositiveDecimal),
			huh.NewInput().Title("Iceberg minimum fills").
				Value(&a.IcebergMinFills).Validate(validateCount),
			huh.NewInput().Title("Iceberg price tolerance").
				Value(&a.IcebergTolerance).Validate(validateDecimal),
			huh.NewInput().Title("Absorption volume").
				Value(&a.AbsorptionVolume).Validate(validateDecimal),
			huh.NewInput().Title("Absorption price range").
				Value(&a.AbsorptionPriceRange).Validate(validateDecimal),
		),
	).Run()
	if err != nil {
		return "", err
	}

	step("FINAL CONFIRMATION")
	summary := fmt.Sprintf(
		"Pair: %s\nSnapshot: %s\nTick size: %s\nBlock size: %s\n",
		a.Pair, orDefault(a.Snapshot, "built-in sample"), a.TickSize, a.BlockThreshold,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return "", err
	}

	if !confirm {
		return "", fmt.Errorf("setup cancelled by user")
	}

	if err := WriteConfig(DefaultConfigFile, a); err != nil {
		return "", err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", DefaultConfigFile)))
	return DefaultConfigFile, nil
}

// WriteConfig validates the answers and writes them as a single-entry yaml config.
func WriteConfig(path string, a Answers) error {
	data, err := yaml.Marshal([]config.ConfigTmp{toConfigTmp(a)})
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	if _, err := config.Parse(data); err != nil {
		return fmt.Errorf("generated config is invalid: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

func toConfigTmp(a Answers) config.ConfigTmp {
	return config.ConfigTmp{
		Pair:                 strings.TrimSpace(a.Pair),
		Snapshot:             strings.TrimSpace(a.Snapshot),
		Depth:                a.Depth,
		BlockThreshold:       a.BlockThreshold,
		ClusterWindow:        a.ClusterWindow,
		ClusterMinSize:       a.ClusterMinSize,
		TickSize:             a.TickSize,
		IcebergMinFills:      a.IcebergMinFills,
		IcebergTolerance:     a.IcebergTolerance,
		SpoofingThreshold:    a.SpoofingThreshold,
		LevelThreshold:       a.LevelThreshold,
		AbsorptionVolume:     a.AbsorptionVolume,
		AbsorptionPriceRange: a.AbsorptionPriceRange,
	}
}

func validatePair(s string) error {
	if s == "" {
		return fmt.Errorf("pair cannot be empty")
	}
	if !strings.Contains(s, "_") {
		return fmt.Errorf("invalid format: must be BASE_QUOTE (e.g. BTC_USDT)")
	}
	return nil
}

func validateCount(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}

func validateDecimal(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validatePositiveDecimal(s string) error {
	if err := validateDecimal(s); err != nil {
		return err
	}
	if decimal.RequireFromString(s).IsZero() {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oleksii-sytar/fincast/internal/config"
	"github.com/oleksii-sytar/fincast/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues backs the first-run huh form. Inputs are kept as strings and
// parsed on save.
type setupValues struct {
	minBalance string
	bufferDays string
	themeName  string
}

func setupValuesFromConfig(cfg config.Config) setupValues {
	return setupValues{
		minBalance: strconv.FormatFloat(cfg.Safety.MinimumSafeBalance, 'f', -1, 64),
		bufferDays: strconv.Itoa(cfg.Safety.SafetyBufferDays),
		themeName:  cfg.Appearance.Theme,
	}
}

func newSetupForm(vals *setupValues) *huh.Form {
	themeOptions := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOptions = append(themeOptions, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minimum safe balance").
				Description("The floor your balance should never cross. Negative models an overdraft allowance.").
				Value(&vals.minBalance).
				Validate(validateFloat),

			huh.NewInput().
				Title("Safety buffer (days)").
				Description("Days of estimated spending kept above the floor before a day is flagged.").
				Value(&vals.bufferDays).
				Validate(validateNonNegativeInt),

			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions...).
				Value(&vals.themeName),
		),
	)
}

func validateFloat(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number of days")
	}
	return nil
}

// saveSetupConfig applies the form values and persists them, returning the
// updated config. Save failures keep the settings for this session only.
func (a *App) saveSetupConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(a.setupVals.minBalance), 64); err == nil {
		cfg.Safety.MinimumSafeBalance = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(a.setupVals.bufferDays)); err == nil && v >= 0 {
		cfg.Safety.SafetyBufferDays = v
	}
	if a.setupVals.themeName != "" {
		cfg.Appearance.Theme = a.setupVals.themeName
		theme.SetActive(cfg.Appearance.Theme)
	}

	_ = config.Save(cfg)
	return cfg
}

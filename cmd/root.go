// Package cmd implements the fincast CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/oleksii-sytar/fincast/internal/config"
	"github.com/oleksii-sytar/fincast/internal/model"
	"github.com/oleksii-sytar/fincast/internal/obs"
	"github.com/oleksii-sytar/fincast/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagLedger   string
	flagLookback int
	flagHorizon  int
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "fincast",
	Short: "Personal cash-flow forecasting CLI",
	Long:  "Track spending, project your balance day by day, and spot category trends.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLedger, "ledger", "l", "", "Ledger database path (default: config or XDG data dir)")
	rootCmd.PersistentFlags().IntVarP(&flagLookback, "lookback", "n", 0, "History window in days (default from config)")
	rootCmd.PersistentFlags().IntVar(&flagHorizon, "horizon", 0, "Forecast horizon in days (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

func newLogger() *obs.Logger {
	return obs.NewLogger(obs.DetectMode())
}

// loadSetup resolves config with flag overrides applied.
func loadSetup() config.Config {
	cfg, err := config.Load()
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Config unreadable, using defaults (%v)\n", err)
		}
		cfg = config.DefaultConfig()
	}
	if flagLookback > 0 {
		cfg.General.LookbackDays = flagLookback
	}
	if flagHorizon > 0 {
		cfg.General.HorizonDays = flagHorizon
	}
	if flagLedger != "" {
		cfg.General.LedgerPath = flagLedger
	}
	return cfg
}

// openLedger is the shared ledger path used by all commands.
func openLedger(cfg config.Config) (*store.Ledger, error) {
	ledger, err := store.Open(cfg.LedgerPath())
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", cfg.LedgerPath(), err)
	}
	return ledger, nil
}

// historyWindow returns the inclusive lookback range ending today.
func historyWindow(cfg config.Config) (time.Time, time.Time) {
	today := model.DateOnly(time.Now())
	return today.AddDate(0, 0, -cfg.General.LookbackDays), today
}

// forecastWindow returns the horizon range starting tomorrow.
func forecastWindow(cfg config.Config) (time.Time, time.Time) {
	today := model.DateOnly(time.Now())
	return today.AddDate(0, 0, 1), today.AddDate(0, 0, cfg.General.HorizonDays)
}

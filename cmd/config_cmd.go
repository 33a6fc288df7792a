package cmd

import (
	"fmt"

	"github.com/oleksii-sytar/fincast/internal/cli"
	"github.com/oleksii-sytar/fincast/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Ledger:        %s\n", cfg.LedgerPath())
	fmt.Printf("    Lookback days: %d\n", cfg.General.LookbackDays)
	fmt.Printf("    Horizon days:  %d\n", cfg.General.HorizonDays)
	fmt.Println()

	fmt.Println("  [Safety]")
	fmt.Printf("    Minimum safe balance: %s\n", cli.FormatMoney(cfg.Safety.MinimumSafeBalance))
	fmt.Printf("    Safety buffer days:   %d\n", cfg.Safety.SafetyBufferDays)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `fincast setup` to reconfigure.")
	return nil
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oleksii-sytar/fincast/internal/config"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	fmt.Println()
	fmt.Println("  Welcome to fincast!")
	fmt.Println()

	// 1. Minimum safe balance
	fmt.Println("  1. Minimum safe balance")
	fmt.Println("     The balance floor you never want to cross. Days projected")
	fmt.Println("     below it are flagged as danger. Negative values model an")
	fmt.Println("     overdraft allowance.")
	fmt.Printf("     Current: %.0f\n", cfg.Safety.MinimumSafeBalance)
	fmt.Print("     > ")
	if v, ok := readFloat(reader); ok {
		cfg.Safety.MinimumSafeBalance = v
	}
	fmt.Println()

	// 2. Safety buffer
	fmt.Println("  2. Safety buffer (days)")
	fmt.Println("     Days of estimated spending kept above the floor before a")
	fmt.Println("     day is flagged as a warning.")
	fmt.Printf("     Current: %d\n", cfg.Safety.SafetyBufferDays)
	fmt.Print("     > ")
	if v, ok := readInt(reader); ok && v >= 0 {
		cfg.Safety.SafetyBufferDays = v
	}
	fmt.Println()

	// 3. Theme
	fmt.Println("  3. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Tokyo Night")
	fmt.Println("     (4) Terminal (ANSI 16)")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "tokyo-night"
	case "4":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `fincast setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func readFloat(reader *bufio.Reader) (float64, bool) {
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		fmt.Printf("     Not a number, keeping current value.\n")
		return 0, false
	}
	return v, true
}

func readInt(reader *bufio.Reader) (int, bool) {
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, false
	}
	v, err := strconv.Atoi(line)
	if err != nil {
		fmt.Printf("     Not a whole number, keeping current value.\n")
		return 0, false
	}
	return v, true
}

package cmd

import (
	"fmt"

	"github.com/oleksii-sytar/fincast/internal/cli"
	"github.com/oleksii-sytar/fincast/internal/engine"

	"github.com/spf13/cobra"
)

var flagOutlierThreshold float64

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Show the average daily spending estimate and how it was derived",
	RunE:  runBaseline,
}

func init() {
	baselineCmd.Flags().Float64Var(&flagOutlierThreshold, "outlier-threshold", engine.DefaultOutlierThreshold,
		"Exclude expenses above this multiple of the median")
	rootCmd.AddCommand(baselineCmd)
}

func runBaseline(_ *cobra.Command, _ []string) error {
	cfg := loadSetup()

	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	since, until := historyWindow(cfg)
	history, err := ledger.Transactions(since, until)
	if err != nil {
		return err
	}

	estimate := engine.Estimate(history, flagOutlierThreshold)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING BASELINE  Last %dd", cfg.General.LookbackDays)))
	fmt.Println()

	rows := [][]string{
		{"Avg Daily Spend", cli.FormatMoney(estimate.AverageDaily)},
		{"Confidence", estimate.Confidence.String()},
		{"Days Analyzed", cli.FormatNumber(int64(estimate.DaysAnalyzed))},
		{"---"},
		{"Included", cli.FormatNumber(int64(estimate.TransactionsIncluded))},
		{"Excluded (outliers)", cli.FormatNumber(int64(estimate.TransactionsExcluded))},
		{"Median Expense", cli.FormatMoney(estimate.MedianAmount)},
		{"Total Counted", cli.FormatMoney(estimate.TotalSpending)},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if estimate.DaysAnalyzed > 0 && estimate.DaysAnalyzed < 14 {
		fmt.Println("  Under two weeks of history. The baseline firms up at 14 days")
		fmt.Println("  and reaches high confidence at 30.")
		fmt.Println()
	}

	return nil
}

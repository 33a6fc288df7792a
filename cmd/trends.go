package cmd

import (
	"fmt"
	"time"

	"github.com/oleksii-sytar/fincast/internal/cli"
	"github.com/oleksii-sytar/fincast/internal/engine"

	"github.com/spf13/cobra"
)

var flagTrendMonth string

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Compare category spending across months",
	RunE:  runTrends,
}

func init() {
	trendsCmd.Flags().StringVar(&flagTrendMonth, "month", "", "Target month (YYYY-MM, default: current)")
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(_ *cobra.Command, _ []string) error {
	cfg := loadSetup()

	year, month, err := resolveTrendMonth(flagTrendMonth)
	if err != nil {
		return err
	}

	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	// The trailing average needs the two months before the target, so the
	// query window is wider than the lookback flag.
	windowStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -2, 0)
	windowEnd := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	history, err := ledger.Transactions(windowStart, windowEnd)
	if err != nil {
		return err
	}

	report := engine.AnalyzeTrends(history, year, month)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING TRENDS  %s", cli.FormatMonth(year, month))))
	fmt.Println()

	if len(report.Trends) == 0 {
		fmt.Println("  No expenses recorded for this month or the previous one.")
		return nil
	}

	rows := make([][]string, 0, len(report.Trends))
	for _, tr := range report.Trends {
		flag := ""
		if tr.IsUnusual {
			flag = "unusual"
		}
		rows = append(rows, []string{
			tr.CategoryName,
			cli.FormatMoney(tr.CurrentMonth),
			cli.FormatMoney(tr.PreviousMonth),
			cli.FormatPercent(tr.PercentChange),
			cli.FormatTrendArrow(tr.Trend),
			flag,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "This Month", "Last Month", "Change", "Trend", ""},
		Rows:    rows,
	}))

	fmt.Printf("  Total: %s this month, %s last month (%s)\n",
		cli.FormatMoney(report.TotalCurrentMonth),
		cli.FormatMoney(report.TotalPreviousMonth),
		cli.FormatPercent(report.OverallPercentChange),
	)
	fmt.Printf("  Daily average: %s\n", cli.FormatMoney(report.AverageDaily))

	if len(report.UnusualCategories) > 0 {
		fmt.Println()
		for _, tr := range report.UnusualCategories {
			fmt.Printf("  %s is well off its 3-month average (%s vs %s)\n",
				tr.CategoryName,
				cli.FormatMoney(tr.CurrentMonth),
				cli.FormatMoney(tr.ThreeMonthAvg),
			)
		}
	}
	fmt.Println()

	return nil
}

func resolveTrendMonth(arg string) (int, time.Month, error) {
	if arg == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", arg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want YYYY-MM", arg)
	}
	return t.Year(), t.Month(), nil
}

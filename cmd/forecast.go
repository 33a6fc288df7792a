package cmd

import (
	"fmt"

	"github.com/oleksii-sytar/fincast/internal/cli"
	"github.com/oleksii-sytar/fincast/internal/engine"

	"github.com/spf13/cobra"
)

var flagBreakdown bool

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project the balance day by day over the horizon",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().BoolVar(&flagBreakdown, "breakdown", false, "Show planned income/expense columns per day")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
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

	balance, err := ledger.Balance()
	if err != nil {
		return err
	}

	start, end := forecastWindow(cfg)
	planned, err := ledger.Planned(start, end)
	if err != nil {
		return err
	}

	forecast := engine.Forecast(engine.ForecastParams{
		CurrentBalance: balance,
		History:        history,
		Planned:        planned,
		Start:          start,
		End:            end,
		Settings:       cfg.Settings(),
	})

	if !forecast.ShouldDisplay {
		fmt.Println("\n  Not enough spending history for a daily forecast yet.")
		fmt.Println("  Two weeks of transactions unlocks it. Import more data and retry.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY FORECAST  %dd from %s", cfg.General.HorizonDays, cli.FormatDate(start))))
	fmt.Println()

	headers := []string{"Date", "Day", "Balance", "Risk", "Confidence"}
	if flagBreakdown {
		headers = []string{"Date", "Day", "Start", "Income", "Planned Out", "Est Spend", "Balance", "Risk"}
	}

	rows := make([][]string, 0, len(forecast.Days))
	for _, d := range forecast.Days {
		if flagBreakdown {
			rows = append(rows, []string{
				cli.FormatDate(d.Date),
				cli.FormatDayOfWeek(d.Date),
				cli.FormatMoney(d.Breakdown.StartingBalance),
				cli.FormatMoney(d.Breakdown.PlannedIncome),
				cli.FormatMoney(d.Breakdown.PlannedExpenses),
				cli.FormatMoney(d.Breakdown.EstimatedDailySpend),
				cli.FormatMoney(d.ProjectedBalance),
				cli.RiskCell(d.Risk),
			})
			continue
		}
		rows = append(rows, []string{
			cli.FormatDate(d.Date),
			cli.FormatDayOfWeek(d.Date),
			cli.FormatMoney(d.ProjectedBalance),
			cli.RiskCell(d.Risk),
			cli.ConfidenceCell(d.Confidence),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: headers,
		Rows:    rows,
	}))

	balances := make([]float64, len(forecast.Days))
	for i, d := range forecast.Days {
		balances[i] = d.ProjectedBalance
	}
	fmt.Printf("  Balance %s\n", cli.RenderSparkline(balances))
	fmt.Printf("  Daily spend assumption: %s (baseline %s, padded for safety)\n\n",
		cli.FormatMoney(forecast.AverageDaily*engine.ConservativeMultiplier),
		forecast.SpendingConfidence.String(),
	)

	return nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/oleksii-sytar/fincast/internal/cli"
	"github.com/oleksii-sytar/fincast/internal/engine"
	"github.com/oleksii-sytar/fincast/internal/model"
	"github.com/oleksii-sytar/fincast/internal/obs"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Balance, spending baseline, and forecast outlook at a glance",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	log := newLogger()
	cfg := loadSetup()

	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	since, until := historyWindow(cfg)
	history, err := obs.Timed(log, "load history", func() ([]model.Transaction, error) {
		return ledger.Transactions(since, until)
	})
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Println("\n  The ledger is empty.")
		fmt.Println("  Import a bank CSV first: fincast import statement.csv")
		return nil
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

	now := time.Now()
	report := engine.AnalyzeTrends(history, now.Year(), now.Month())

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CASH OUTLOOK  Next %dd", cfg.General.HorizonDays)))
	fmt.Println()

	rows := [][]string{
		{"Balance", cli.FormatMoney(balance)},
		{"Avg Daily Spend", cli.FormatMoney(forecast.AverageDaily)},
		{"Baseline Confidence", forecast.SpendingConfidence.String()},
		{"---"},
	}

	if !forecast.ShouldDisplay {
		rows = append(rows, []string{"Forecast", "needs more history"})
	} else if len(forecast.Days) > 0 {
		lowest := forecast.Days[0]
		dangerDay := -1
		for i, d := range forecast.Days {
			if d.ProjectedBalance < lowest.ProjectedBalance {
				lowest = d
			}
			if d.Risk == model.RiskDanger && dangerDay == -1 {
				dangerDay = i + 1
			}
		}
		last := forecast.Days[len(forecast.Days)-1]

		rows = append(rows,
			[]string{"Projected (end)", cli.FormatMoney(last.ProjectedBalance)},
			[]string{"Lowest Point", fmt.Sprintf("%s on %s", cli.FormatMoney(lowest.ProjectedBalance), cli.FormatDate(lowest.Date))},
		)
		if dangerDay > 0 {
			rows = append(rows, []string{"Danger In", fmt.Sprintf("%d days", dangerDay)})
		} else {
			rows = append(rows, []string{"Danger In", "beyond horizon"})
		}
	}

	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Month Spending", cli.FormatMoney(report.TotalCurrentMonth)})
	if report.TotalPreviousMonth > 0 {
		rows = append(rows, []string{"vs Last Month", cli.FormatPercent(report.OverallPercentChange)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if forecast.ShouldDisplay && len(forecast.Days) > 0 {
		balances := make([]float64, len(forecast.Days))
		for i, d := range forecast.Days {
			balances[i] = d.ProjectedBalance
		}
		fmt.Printf("  Balance %s\n\n", cli.RenderSparkline(balances))
	}

	return nil
}

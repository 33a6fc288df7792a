package tui

import (
	"fmt"
	"strings"

	"github.com/oleksii-sytar/fincast/internal/cli"
	"github.com/oleksii-sytar/fincast/internal/model"
	"github.com/oleksii-sytar/fincast/internal/tui/components"
	"github.com/oleksii-sytar/fincast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab() string {
	t := theme.Active
	cw := a.contentWidth()

	widths := components.LayoutRow(cw, 3)

	balanceNote := ""
	balanceColor := t.TextDim
	if a.forecast.ShouldDisplay && len(a.forecast.Days) > 0 {
		last := a.forecast.Days[len(a.forecast.Days)-1]
		balanceNote = fmt.Sprintf("%s in %dd", cli.FormatMoney(last.ProjectedBalance), len(a.forecast.Days))
		switch last.Risk {
		case model.RiskDanger:
			balanceColor = t.Red
		case model.RiskWarning:
			balanceColor = t.Orange
		default:
			balanceColor = t.Green
		}
	}

	spendNote := fmt.Sprintf("confidence: %s", a.estimate.Confidence)
	monthNote := ""
	if a.report.TotalPreviousMonth > 0 {
		monthNote = fmt.Sprintf("%s vs last month", cli.FormatPercent(a.report.OverallPercentChange))
	}

	cards := components.CardRow([]string{
		components.MetricCard("Balance", cli.FormatMoney(a.balance), balanceNote, balanceColor, widths[0]),
		components.MetricCard("Avg Daily Spend", cli.FormatMoney(a.estimate.AverageDaily), spendNote, "", widths[1]),
		components.MetricCard("This Month", cli.FormatMoney(a.report.TotalCurrentMonth), monthNote, "", widths[2]),
	})

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n")

	if !a.forecast.ShouldDisplay {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted)
		b.WriteString(components.ContentCard("Forecast",
			muted.Render("Not enough history yet. Two weeks of transactions\nunlocks the daily projection."), cw))
		return b.String()
	}

	balances := make([]float64, len(a.forecast.Days))
	dangerDay := -1
	for i, d := range a.forecast.Days {
		balances[i] = d.ProjectedBalance
		if d.Risk == model.RiskDanger && dangerDay == -1 {
			dangerDay = i + 1
		}
	}

	spark := components.Sparkline(balances, sparkColor(dangerDay))
	caption := fmt.Sprintf("Next %d days", len(a.forecast.Days))
	if dangerDay > 0 {
		caption += fmt.Sprintf("  (danger in %d)", dangerDay)
	}

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	body := spark + "\n" + mutedStyle.Render(caption)
	b.WriteString(components.ContentCard("Projected Balance", body, cw))

	return b.String()
}

func sparkColor(dangerDay int) lipgloss.Color {
	t := theme.Active
	if dangerDay > 0 {
		return t.Red
	}
	return t.Accent
}

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

func (a App) renderForecastTab() string {
	t := theme.Active
	cw := a.contentWidth()

	if !a.forecast.ShouldDisplay {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted)
		return components.ContentCard("Daily Forecast",
			muted.Render("Not enough spending history for a daily forecast."), cw)
	}
	if len(a.forecast.Days) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted)
		return components.ContentCard("Daily Forecast", muted.Render("Empty forecast range."), cw)
	}

	visible := a.height - 12
	if visible < 3 {
		visible = 3
	}
	from := a.forecastScroll
	to := from + visible
	if to > len(a.forecast.Days) {
		to = len(a.forecast.Days)
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("  %-12s %-4s %14s  %-8s %s",
		"Date", "Day", "Balance", "Risk", "Confidence")))
	b.WriteString("\n")

	for _, d := range a.forecast.Days[from:to] {
		line := fmt.Sprintf("  %-12s %-4s %14s  %-8s %s",
			cli.FormatDate(d.Date),
			cli.FormatDayOfWeek(d.Date),
			cli.FormatMoney(d.ProjectedBalance),
			string(d.Risk),
			d.Confidence,
		)
		b.WriteString(riskRowStyle(rowStyle, d.Risk).Render(line))
		b.WriteString("\n")
	}

	if to < len(a.forecast.Days) || from > 0 {
		dim := lipgloss.NewStyle().Foreground(t.TextDim)
		b.WriteString(dim.Render(fmt.Sprintf("  showing %d-%d of %d  (j/k to scroll)",
			from+1, to, len(a.forecast.Days))))
		b.WriteString("\n")
	}

	title := fmt.Sprintf("Daily Forecast  (spend %s/day, %s baseline)",
		cli.FormatMoney(a.forecast.AverageDaily), a.forecast.SpendingConfidence)
	return components.ContentCard(title, b.String(), cw)
}

func riskRowStyle(base lipgloss.Style, r model.RiskLevel) lipgloss.Style {
	t := theme.Active
	switch r {
	case model.RiskDanger:
		return base.Foreground(t.Red)
	case model.RiskWarning:
		return base.Foreground(t.Orange)
	default:
		return base
	}
}

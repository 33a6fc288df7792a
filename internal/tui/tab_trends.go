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

func (a App) renderTrendsTab() string {
	t := theme.Active
	cw := a.contentWidth()
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	if len(a.report.Trends) == 0 {
		return components.ContentCard("Spending Trends",
			muted.Render("No expenses recorded this month or last."), cw)
	}

	maxSpend := 0.0
	for _, tr := range a.report.Trends {
		if tr.CurrentMonth > maxSpend {
			maxSpend = tr.CurrentMonth
		}
	}

	barWidth := components.CardInnerWidth(cw) / 3
	if barWidth > 30 {
		barWidth = 30
	}

	var b strings.Builder
	for _, tr := range a.report.Trends {
		name := tr.CategoryName
		if len(name) > 18 {
			name = name[:17] + "…"
		}

		line := fmt.Sprintf("  %-18s %s %12s  %s %s",
			name,
			components.HBar(tr.CurrentMonth, maxSpend, barWidth, trendBarColor(tr)),
			cli.FormatMoney(tr.CurrentMonth),
			cli.FormatTrendArrow(tr.Trend),
			cli.FormatPercent(tr.PercentChange),
		)
		if tr.IsUnusual {
			line += lipgloss.NewStyle().Foreground(t.Yellow).Render("  unusual")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  Total %s this month, %s last (%s); %s/day",
		cli.FormatMoney(a.report.TotalCurrentMonth),
		cli.FormatMoney(a.report.TotalPreviousMonth),
		cli.FormatPercent(a.report.OverallPercentChange),
		cli.FormatMoney(a.report.AverageDaily),
	)))

	return components.ContentCard("Spending Trends", b.String(), cw)
}

func trendBarColor(tr model.CategoryTrend) lipgloss.Color {
	t := theme.Active
	if tr.IsUnusual {
		return t.Yellow
	}
	switch tr.Trend {
	case model.TrendIncreasing:
		return t.Orange
	case model.TrendDecreasing:
		return t.Green
	default:
		return t.Blue
	}
}

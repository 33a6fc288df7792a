package tui

import (
	"fmt"
	"strings"

	"github.com/oleksii-sytar/fincast/internal/cli"
	"github.com/oleksii-sytar/fincast/internal/config"
	"github.com/oleksii-sytar/fincast/internal/tui/components"
	"github.com/oleksii-sytar/fincast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSettingsTab() string {
	t := theme.Active
	cw := a.contentWidth()

	label := lipgloss.NewStyle().Foreground(t.TextMuted)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dim := lipgloss.NewStyle().Foreground(t.TextDim)

	row := func(k, v string) string {
		return fmt.Sprintf("  %s %s", label.Render(fmt.Sprintf("%-22s", k)), value.Render(v))
	}

	var b strings.Builder
	b.WriteString(row("Ledger", a.cfg.LedgerPath()))
	b.WriteString("\n")
	b.WriteString(row("Lookback window", fmt.Sprintf("%d days", a.cfg.General.LookbackDays)))
	b.WriteString("\n")
	b.WriteString(row("Forecast horizon", fmt.Sprintf("%d days", a.cfg.General.HorizonDays)))
	b.WriteString("\n")
	b.WriteString(row("Minimum safe balance", cli.FormatMoney(a.cfg.Safety.MinimumSafeBalance)))
	b.WriteString("\n")
	b.WriteString(row("Safety buffer", fmt.Sprintf("%d days", a.cfg.Safety.SafetyBufferDays)))
	b.WriteString("\n")
	b.WriteString(row("Theme", a.cfg.Appearance.Theme))
	b.WriteString("\n\n")
	b.WriteString(dim.Render(fmt.Sprintf("  Config file: %s", config.ConfigPath())))
	b.WriteString("\n")
	b.WriteString(dim.Render("  Edit with `fincast setup` and press r to reload."))

	return components.ContentCard("Settings", b.String(), cw)
}

// Package tui provides the interactive Bubble Tea dashboard for fincast.
package tui

import (
	"fmt"
	"time"

	"github.com/oleksii-sytar/fincast/internal/config"
	"github.com/oleksii-sytar/fincast/internal/engine"
	"github.com/oleksii-sytar/fincast/internal/model"
	"github.com/oleksii-sytar/fincast/internal/store"
	"github.com/oleksii-sytar/fincast/internal/tui/components"
	"github.com/oleksii-sytar/fincast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the ledger read finishes.
type DataLoadedMsg struct {
	Balance  float64
	History  []model.Transaction
	Planned  []model.PlannedTransaction
	LoadTime time.Duration
}

// LoadFailedMsg is sent when the ledger cannot be read.
type LoadFailedMsg struct {
	Err error
}

// App is the root Bubble Tea model.
type App struct {
	cfg config.Config

	// Ledger data
	balance  float64
	history  []model.Transaction
	planned  []model.PlannedTransaction
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Pre-computed engine results
	estimate model.SpendingEstimate
	forecast model.ForecastResult
	report   model.TrendReport

	// UI state
	width          int
	height         int
	activeTab      int
	forecastScroll int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 140
)

// NewApp creates a new TUI app model.
func NewApp(cfg config.Config, needSetup bool) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		cfg:       cfg,
		needSetup: needSetup,
		setupVals: setupValuesFromConfig(cfg),
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadDataCmd(a.cfg),
		a.spinner.Tick,
	)
}

func loadDataCmd(cfg config.Config) tea.Cmd {
	return func() tea.Msg {
		started := time.Now()

		ledger, err := store.Open(cfg.LedgerPath())
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		defer func() { _ = ledger.Close() }()

		balance, err := ledger.Balance()
		if err != nil {
			return LoadFailedMsg{Err: err}
		}

		today := model.DateOnly(time.Now())
		since := today.AddDate(0, 0, -cfg.General.LookbackDays)
		// Trend comparisons need two months before the current one, so widen
		// the read when the lookback window is shorter than that.
		trendStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -2, 0)
		if trendStart.Before(since) {
			since = trendStart
		}
		history, err := ledger.Transactions(since, today)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}

		planned, err := ledger.Planned(
			today.AddDate(0, 0, 1),
			today.AddDate(0, 0, cfg.General.HorizonDays),
		)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}

		return DataLoadedMsg{
			Balance:  balance,
			History:  history,
			Planned:  planned,
			LoadTime: time.Since(started),
		}
	}
}

func (a *App) recompute() {
	today := model.DateOnly(time.Now())
	lookbackStart := today.AddDate(0, 0, -a.cfg.General.LookbackDays)

	baseline := make([]model.Transaction, 0, len(a.history))
	for _, tx := range a.history {
		if !model.DateOnly(tx.Date).Before(lookbackStart) {
			baseline = append(baseline, tx)
		}
	}

	a.estimate = engine.Estimate(baseline, engine.DefaultOutlierThreshold)
	a.forecast = engine.Forecast(engine.ForecastParams{
		CurrentBalance: a.balance,
		History:        baseline,
		Planned:        a.planned,
		Start:          today.AddDate(0, 0, 1),
		End:            today.AddDate(0, 0, a.cfg.General.HorizonDays),
		Settings:       a.cfg.Settings(),
	})

	now := time.Now()
	a.report = engine.AnalyzeTrends(a.history, now.Year(), now.Month())

	if a.forecastScroll >= len(a.forecast.Days) {
		a.forecastScroll = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case DataLoadedMsg:
		a.balance = msg.Balance
		a.history = msg.History
		a.planned = msg.Planned
		a.loadTime = msg.LoadTime
		a.loadErr = nil
		a.loaded = true
		a.recompute()

		// Activate first-run setup once data is on screen
		if a.needSetup && a.setupForm == nil {
			a.setupForm = newSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case LoadFailedMsg:
		a.loadErr = msg.Err
		a.loaded = true
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		if a.needSetup && a.setupForm != nil {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			return a.updateSetupForm(msg)
		}
		return a.handleKey(msg)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "r":
		a.loaded = false
		return a, tea.Batch(loadDataCmd(a.cfg), a.spinner.Tick)

	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil

	case "shift+tab", "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil

	case "j", "down":
		if a.activeTab == tabForecast && a.forecastScroll < maxForecastScroll(len(a.forecast.Days), a.height) {
			a.forecastScroll++
		}
		return a, nil

	case "k", "up":
		if a.activeTab == tabForecast && a.forecastScroll > 0 {
			a.forecastScroll--
		}
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		a.cfg = a.saveSetupConfig()
		a.recompute()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols, need %d).\n", a.width, minTerminalWidth)
	}

	if !a.loaded {
		return fmt.Sprintf("\n\n  %s Reading ledger...\n", a.spinner.View())
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	return a.viewMain()
}

const (
	tabOverview = iota
	tabForecast
	tabTrends
	tabSettings
)

func (a App) viewMain() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 2)

	header := titleStyle.Render("fincast") + "\n" +
		components.RenderTabBar(a.activeTab) + "\n"

	var body string
	if a.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(t.Red)
		body = "\n  " + errStyle.Render(fmt.Sprintf("Ledger error: %v", a.loadErr)) + "\n"
	} else {
		switch a.activeTab {
		case tabForecast:
			body = a.renderForecastTab()
		case tabTrends:
			body = a.renderTrendsTab()
		case tabSettings:
			body = a.renderSettingsTab()
		default:
			body = a.renderOverviewTab()
		}
	}

	status := components.RenderStatusBar(a.width, a.cfg.LedgerPath())

	return header + "\n" + body + "\n" + status
}

func maxForecastScroll(days, height int) int {
	visible := height - 12 // header, tab bar, card chrome, status bar
	if visible < 3 {
		visible = 3
	}
	m := days - visible
	if m < 0 {
		return 0
	}
	return m
}

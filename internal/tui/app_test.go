package tui

import (
	"testing"
	"time"

	"github.com/oleksii-sytar/fincast/internal/config"
	"github.com/oleksii-sytar/fincast/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func testApp() App {
	return NewApp(config.DefaultConfig(), false)
}

func TestHandleKey_TabCycling(t *testing.T) {
	a := testApp()
	a.loaded = true
	a.width = 100
	a.height = 40

	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = m.(App)
	if a.activeTab != tabForecast {
		t.Errorf("after tab, activeTab = %d, want %d", a.activeTab, tabForecast)
	}

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	a = m.(App)
	if a.activeTab != tabOverview {
		t.Errorf("after shift+tab, activeTab = %d, want %d", a.activeTab, tabOverview)
	}

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	a = m.(App)
	if a.activeTab != tabTrends {
		t.Errorf("after 't', activeTab = %d, want %d", a.activeTab, tabTrends)
	}
}

func TestUpdate_DataLoadedRecomputes(t *testing.T) {
	a := testApp()
	a.width = 100
	a.height = 40

	today := model.DateOnly(time.Now())
	var history []model.Transaction
	for i := 30; i >= 1; i-- {
		history = append(history, model.Transaction{
			Amount:       100,
			Date:         today.AddDate(0, 0, -i),
			Type:         model.Expense,
			CategoryID:   "rent",
			CategoryName: "Rent",
		})
	}

	m, _ := a.Update(DataLoadedMsg{Balance: 5000, History: history})
	a = m.(App)

	if !a.loaded {
		t.Fatal("loaded = false after DataLoadedMsg")
	}
	if !a.forecast.ShouldDisplay {
		t.Error("forecast hidden with 30 days of history")
	}
	if a.estimate.AverageDaily < 99 || a.estimate.AverageDaily > 101 {
		t.Errorf("AverageDaily = %v, want ~100", a.estimate.AverageDaily)
	}
}

func TestMaxForecastScroll(t *testing.T) {
	if got := maxForecastScroll(30, 20); got != 22 {
		t.Errorf("maxForecastScroll(30, 20) = %d, want 22", got)
	}
	if got := maxForecastScroll(5, 40); got != 0 {
		t.Errorf("maxForecastScroll(5, 40) = %d, want 0", got)
	}
}

package engine

import (
	"testing"
	"time"

	"github.com/oleksii-sytar/fincast/internal/model"
)

// catExpense builds a categorized expense row.
func catExpense(t *testing.T, date string, amount float64, id, name string) model.Transaction {
	t.Helper()
	return model.Transaction{
		Amount:       amount,
		Date:         day(t, date),
		Type:         model.Expense,
		CategoryID:   id,
		CategoryName: name,
	}
}

func findTrend(t *testing.T, report model.TrendReport, id string) model.CategoryTrend {
	t.Helper()
	for _, tr := range report.Trends {
		if tr.CategoryID == id {
			return tr
		}
	}
	t.Fatalf("category %q not in report", id)
	return model.CategoryTrend{}
}

func TestAnalyzeTrends_EmptyInput(t *testing.T) {
	report := AnalyzeTrends(nil, 2025, time.March)
	if len(report.Trends) != 0 || len(report.TopCategories) != 0 || len(report.UnusualCategories) != 0 {
		t.Errorf("empty input produced non-empty report: %+v", report)
	}
	if report.TotalCurrentMonth != 0 || report.AverageDaily != 0 {
		t.Errorf("empty input totals = %.2f / %.2f, want zeros",
			report.TotalCurrentMonth, report.AverageDaily)
	}
}

func TestAnalyzeTrends_NewCategory(t *testing.T) {
	txns := []model.Transaction{
		catExpense(t, "2025-03-10", 250, "pets", "Pets"),
	}

	report := AnalyzeTrends(txns, 2025, time.March)
	tr := findTrend(t, report, "pets")
	if tr.PercentChange != 100 {
		t.Errorf("PercentChange = %.2f, want exactly 100 for a new category", tr.PercentChange)
	}
	if tr.Trend != model.TrendIncreasing {
		t.Errorf("Trend = %s, want increasing", tr.Trend)
	}
}

func TestAnalyzeTrends_PercentChangeAndBands(t *testing.T) {
	txns := []model.Transaction{
		catExpense(t, "2025-02-05", 200, "food", "Food"),
		catExpense(t, "2025-03-05", 210, "food", "Food"), // +5% exactly: stable
		catExpense(t, "2025-02-07", 100, "fuel", "Fuel"),
		catExpense(t, "2025-03-07", 130, "fuel", "Fuel"), // +30%: increasing
		catExpense(t, "2025-02-09", 100, "fun", "Fun"),
		catExpense(t, "2025-03-09", 80, "fun", "Fun"), // -20%: decreasing
	}

	report := AnalyzeTrends(txns, 2025, time.March)

	if tr := findTrend(t, report, "food"); tr.Trend != model.TrendStable {
		t.Errorf("food Trend = %s, want stable at exactly +5%%", tr.Trend)
	}
	if tr := findTrend(t, report, "fuel"); tr.Trend != model.TrendIncreasing {
		t.Errorf("fuel Trend = %s, want increasing", tr.Trend)
	}
	if tr := findTrend(t, report, "fun"); tr.Trend != model.TrendDecreasing {
		t.Errorf("fun Trend = %s, want decreasing", tr.Trend)
	}
}

func TestAnalyzeTrends_TrailingAverageCountsCurrentMonth(t *testing.T) {
	// 300/month for three months, then 1000 in the fourth. The window is the
	// target month plus the two before it: (1000+300+300)/3.
	txns := []model.Transaction{
		catExpense(t, "2025-01-15", 300, "food", "Food"),
		catExpense(t, "2025-02-15", 300, "food", "Food"),
		catExpense(t, "2025-03-15", 300, "food", "Food"),
		catExpense(t, "2025-04-15", 1000, "food", "Food"),
	}

	report := AnalyzeTrends(txns, 2025, time.April)
	tr := findTrend(t, report, "food")

	want := (1000 + 300 + 300.0) / 3
	if !approx(tr.ThreeMonthAvg, want) {
		t.Errorf("ThreeMonthAvg = %.4f, want %.4f", tr.ThreeMonthAvg, want)
	}
	if !tr.IsUnusual {
		t.Error("IsUnusual = false, want true (deviation well over 50%)")
	}
	if len(report.UnusualCategories) != 1 {
		t.Errorf("len(UnusualCategories) = %d, want 1", len(report.UnusualCategories))
	}
}

func TestAnalyzeTrends_SteadySpendIsNotUnusual(t *testing.T) {
	txns := []model.Transaction{
		catExpense(t, "2025-02-15", 300, "food", "Food"),
		catExpense(t, "2025-03-15", 300, "food", "Food"),
		catExpense(t, "2025-04-15", 300, "food", "Food"),
	}

	report := AnalyzeTrends(txns, 2025, time.April)
	if tr := findTrend(t, report, "food"); tr.IsUnusual {
		t.Error("IsUnusual = true for steady spend, want false")
	}
}

func TestAnalyzeTrends_YearRollover(t *testing.T) {
	txns := []model.Transaction{
		catExpense(t, "2024-12-20", 400, "gifts", "Gifts"),
		catExpense(t, "2025-01-10", 100, "gifts", "Gifts"),
	}

	report := AnalyzeTrends(txns, 2025, time.January)
	tr := findTrend(t, report, "gifts")
	if !approx(tr.PreviousMonth, 400) {
		t.Errorf("PreviousMonth = %.2f, want 400 from December of the prior year", tr.PreviousMonth)
	}
	if !approx(tr.CurrentMonth, 100) {
		t.Errorf("CurrentMonth = %.2f, want 100", tr.CurrentMonth)
	}
}

func TestAnalyzeTrends_SortAndTopCategories(t *testing.T) {
	txns := []model.Transaction{
		catExpense(t, "2025-03-01", 50, "a", "A"),
		catExpense(t, "2025-03-01", 400, "b", "B"),
		catExpense(t, "2025-03-01", 200, "c", "C"),
		catExpense(t, "2025-03-01", 90, "d", "D"),
	}

	report := AnalyzeTrends(txns, 2025, time.March)
	if len(report.Trends) != 4 {
		t.Fatalf("len(Trends) = %d, want 4", len(report.Trends))
	}
	wantOrder := []string{"b", "c", "d", "a"}
	for i, id := range wantOrder {
		if report.Trends[i].CategoryID != id {
			t.Errorf("Trends[%d] = %q, want %q", i, report.Trends[i].CategoryID, id)
		}
	}
	if len(report.TopCategories) != 3 {
		t.Fatalf("len(TopCategories) = %d, want 3", len(report.TopCategories))
	}
	if report.TopCategories[0].CategoryID != "b" {
		t.Errorf("TopCategories[0] = %q, want b", report.TopCategories[0].CategoryID)
	}
}

func TestAnalyzeTrends_TotalsAndDailyAverage(t *testing.T) {
	// February 2024 has 29 days.
	txns := []model.Transaction{
		catExpense(t, "2024-01-10", 290, "food", "Food"),
		catExpense(t, "2024-02-10", 580, "food", "Food"),
		{Amount: 9999, Date: day(t, "2024-02-11"), Type: model.Income, CategoryID: "salary", CategoryName: "Salary"},
	}

	report := AnalyzeTrends(txns, 2024, time.February)
	if !approx(report.TotalCurrentMonth, 580) {
		t.Errorf("TotalCurrentMonth = %.2f, want 580 (income rows excluded)", report.TotalCurrentMonth)
	}
	if !approx(report.TotalPreviousMonth, 290) {
		t.Errorf("TotalPreviousMonth = %.2f, want 290", report.TotalPreviousMonth)
	}
	if !approx(report.OverallPercentChange, 100) {
		t.Errorf("OverallPercentChange = %.2f, want 100", report.OverallPercentChange)
	}
	if !approx(report.AverageDaily, 580.0/29) {
		t.Errorf("AverageDaily = %.4f, want %.4f (29-day leap February)", report.AverageDaily, 580.0/29)
	}
}

func TestAnalyzeTrends_TransactionCount(t *testing.T) {
	txns := []model.Transaction{
		catExpense(t, "2025-03-01", 10, "food", "Food"),
		catExpense(t, "2025-03-02", 10, "food", "Food"),
		catExpense(t, "2025-03-03", 10, "food", "Food"),
		catExpense(t, "2025-02-01", 10, "food", "Food"),
	}

	report := AnalyzeTrends(txns, 2025, time.March)
	if tr := findTrend(t, report, "food"); tr.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, want 3 (current month only)", tr.TransactionCount)
	}
}

func TestPercentChange_ZeroConventions(t *testing.T) {
	if got := percentChange(0, 0); got != 0 {
		t.Errorf("percentChange(0,0) = %.2f, want 0", got)
	}
	if got := percentChange(50, 0); got != 100 {
		t.Errorf("percentChange(50,0) = %.2f, want 100", got)
	}
	if got := percentChange(50, 100); !approx(got, -50) {
		t.Errorf("percentChange(50,100) = %.2f, want -50", got)
	}
}

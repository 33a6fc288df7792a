package engine

import (
	"sort"
	"time"

	"github.com/oleksii-sytar/fincast/internal/model"
)

// Trend classification boundaries.
const (
	trendBandPercent  = 5.0 // month-over-month change treated as noise
	unusualDeviation  = 0.5 // fraction of the 3-month average
	trailingWindow    = 3   // months, counting the target month itself
	newCategoryChange = 100.0
)

type monthKey struct {
	year  int
	month time.Month
}

func (k monthKey) previous() monthKey {
	if k.month == time.January {
		return monthKey{year: k.year - 1, month: time.December}
	}
	return monthKey{year: k.year, month: k.month - 1}
}

type categoryMonth struct {
	name  string
	total float64
	count int
}

// AnalyzeTrends compares per-category expense totals for the target month
// against the previous month and a 3-month trailing average that counts the
// target month as one of the three. Empty input yields an all-zero report.
func AnalyzeTrends(txns []model.Transaction, year int, month time.Month) model.TrendReport {
	target := monthKey{year: year, month: month}
	prev := target.previous()

	current := sumByCategory(txns, target)
	previous := sumByCategory(txns, prev)

	// Trailing window totals, oldest last. Months with no spend count as
	// zero rather than shrinking the divisor.
	window := make([]map[string]categoryMonth, trailingWindow)
	window[0] = current
	key := target
	for i := 1; i < trailingWindow; i++ {
		key = key.previous()
		window[i] = sumByCategory(txns, key)
	}

	names := make(map[string]string)
	for id, cm := range current {
		names[id] = cm.name
	}
	for id, cm := range previous {
		if _, ok := names[id]; !ok {
			names[id] = cm.name
		}
	}

	trends := make([]model.CategoryTrend, 0, len(names))
	for id, name := range names {
		cur := current[id].total
		prv := previous[id].total

		var trailing float64
		for _, m := range window {
			trailing += m[id].total
		}
		avg := trailing / trailingWindow

		change := percentChange(cur, prv)

		unusual := false
		if avg > 0 && abs(cur-avg)/avg > unusualDeviation {
			unusual = true
		}

		trends = append(trends, model.CategoryTrend{
			CategoryID:       id,
			CategoryName:     name,
			CurrentMonth:     cur,
			PreviousMonth:    prv,
			ThreeMonthAvg:    avg,
			PercentChange:    change,
			Trend:            classifyTrend(change),
			IsUnusual:        unusual,
			TransactionCount: current[id].count,
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].CurrentMonth != trends[j].CurrentMonth {
			return trends[i].CurrentMonth > trends[j].CurrentMonth
		}
		return trends[i].CategoryName < trends[j].CategoryName
	})

	report := model.TrendReport{Trends: trends}
	for _, t := range trends {
		report.TotalCurrentMonth += t.CurrentMonth
		report.TotalPreviousMonth += t.PreviousMonth
		if t.IsUnusual {
			report.UnusualCategories = append(report.UnusualCategories, t)
		}
	}
	report.OverallPercentChange = percentChange(report.TotalCurrentMonth, report.TotalPreviousMonth)

	top := len(trends)
	if top > 3 {
		top = 3
	}
	report.TopCategories = trends[:top]

	report.AverageDaily = report.TotalCurrentMonth / float64(daysInMonth(year, month))

	return report
}

// sumByCategory totals expense rows for one calendar month, keyed by
// category ID.
func sumByCategory(txns []model.Transaction, key monthKey) map[string]categoryMonth {
	out := make(map[string]categoryMonth)
	for _, tx := range txns {
		if tx.Type != model.Expense {
			continue
		}
		if tx.Date.Year() != key.year || tx.Date.Month() != key.month {
			continue
		}
		cm := out[tx.CategoryID]
		cm.name = tx.CategoryName
		cm.total += tx.Amount
		cm.count++
		out[tx.CategoryID] = cm
	}
	return out
}

// percentChange with the new-category convention: a category absent last
// month but present now reports exactly +100 instead of a division by zero.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return newCategoryChange
		}
		return 0
	}
	return (current - previous) / previous * 100
}

func classifyTrend(change float64) model.TrendDirection {
	switch {
	case change > trendBandPercent:
		return model.TrendIncreasing
	case change < -trendBandPercent:
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}

// daysInMonth is calendar-accurate, leap years included.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

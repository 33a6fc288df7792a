package engine

import (
	"time"

	"github.com/oleksii-sytar/fincast/internal/model"
)

// ConservativeMultiplier inflates the baseline daily spend so forecasts err
// toward underestimating future balance. The product warns about shortfalls;
// an optimistic projection would defeat it.
const ConservativeMultiplier = 1.1

// Confidence decay boundaries, in days from the forecast start.
const (
	highConfidenceDays   = 14
	mediumConfidenceDays = 30
)

// ForecastParams carries everything the projection needs. History and
// planned transactions are read-only.
type ForecastParams struct {
	CurrentBalance float64
	History        []model.Transaction
	Planned        []model.PlannedTransaction
	Start          time.Time
	End            time.Time
	Settings       model.Settings
}

// Forecast projects the balance day by day from Start to End inclusive.
// A baseline confidence of none means there is too little history to show a
// forecast at all: ShouldDisplay is false and the series is empty. An
// inverted date range yields an empty series, not an error.
func Forecast(p ForecastParams) model.ForecastResult {
	estimate := Estimate(p.History, DefaultOutlierThreshold)
	if estimate.Confidence == model.ConfidenceNone {
		return model.ForecastResult{
			SpendingConfidence: model.ConfidenceNone,
			AverageDaily:       estimate.AverageDaily,
		}
	}

	result := model.ForecastResult{
		ShouldDisplay:      true,
		SpendingConfidence: estimate.Confidence,
		AverageDaily:       estimate.AverageDaily,
	}

	start := model.DateOnly(p.Start)
	end := model.DateOnly(p.End)
	if end.Before(start) {
		return result
	}

	dailySpend := estimate.AverageDaily * ConservativeMultiplier
	warnFloor := p.Settings.MinimumSafeBalance +
		float64(p.Settings.SafetyBufferDays)*dailySpend

	// Planned amounts bucketed by calendar day; multiple entries on the
	// same date accumulate.
	plannedIncome := make(map[time.Time]float64)
	plannedExpense := make(map[time.Time]float64)
	for _, pt := range p.Planned {
		day := model.DateOnly(pt.Date)
		switch pt.Type {
		case model.Income:
			plannedIncome[day] += pt.Amount
		case model.Expense:
			plannedExpense[day] += pt.Amount
		}
	}

	balance := p.CurrentBalance
	days := make([]model.DayForecast, 0, model.DaySpan(start, end))
	for day, offset := start, 0; !day.After(end); day, offset = day.AddDate(0, 0, 1), offset+1 {
		income := plannedIncome[day]
		expense := plannedExpense[day]

		breakdown := model.DayBreakdown{
			StartingBalance:     balance,
			PlannedIncome:       income,
			PlannedExpenses:     expense,
			EstimatedDailySpend: dailySpend,
		}
		balance = balance + income - expense - dailySpend
		breakdown.EndingBalance = balance

		days = append(days, model.DayForecast{
			Date:             day,
			ProjectedBalance: balance,
			Risk:             classifyRisk(balance, p.Settings.MinimumSafeBalance, warnFloor),
			Confidence:       dayConfidence(offset, estimate.Confidence),
			Breakdown:        breakdown,
		})
	}

	result.Days = days
	return result
}

// classifyRisk bands a projected balance. Both comparisons are strict: a
// balance exactly at a threshold lands in the safer band.
func classifyRisk(balance, minSafe, warnFloor float64) model.RiskLevel {
	if balance < minSafe {
		return model.RiskDanger
	}
	if balance < warnFloor {
		return model.RiskWarning
	}
	return model.RiskSafe
}

// dayConfidence decays with distance from the forecast start but never
// exceeds the baseline confidence.
func dayConfidence(offset int, baseline model.Confidence) model.Confidence {
	var tier model.Confidence
	switch {
	case offset <= highConfidenceDays:
		tier = model.ConfidenceHigh
	case offset <= mediumConfidenceDays:
		tier = model.ConfidenceMedium
	default:
		tier = model.ConfidenceLow
	}
	return tier.Min(baseline)
}

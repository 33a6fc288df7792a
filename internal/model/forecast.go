package model

import "time"

// DayBreakdown explains how one projected day's ending balance was reached.
type DayBreakdown struct {
	StartingBalance     float64
	PlannedIncome       float64
	PlannedExpenses     float64
	EstimatedDailySpend float64
	EndingBalance       float64
}

// DayForecast is one entry of the projected series. For consecutive days,
// StartingBalance equals the previous day's EndingBalance.
type DayForecast struct {
	Date             time.Time
	ProjectedBalance float64
	Risk             RiskLevel
	Confidence       Confidence
	Breakdown        DayBreakdown
}

// ForecastResult is the full balance projection plus the baseline inputs it
// was derived from, so callers can explain why a number is conservative.
type ForecastResult struct {
	ShouldDisplay      bool
	SpendingConfidence Confidence
	AverageDaily       float64
	Days               []DayForecast
}

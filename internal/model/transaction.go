// Package model defines domain types for fincast ledgers and analytics.
package model

import "time"

// TxType distinguishes money coming in from money going out.
type TxType string

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// Transaction is one posted ledger entry. Records are read-only inputs to
// the analytics engine; the engine never mutates them.
type Transaction struct {
	ID           int64
	Amount       float64 // non-negative; sign is carried by Type
	Date         time.Time
	Type         TxType
	CategoryID   string
	CategoryName string
	Note         string
}

// PlannedTransaction is a scheduled, not-yet-posted event the forecast folds
// into the projected balance on its exact date.
type PlannedTransaction struct {
	ID     int64
	Amount float64
	Date   time.Time
	Type   TxType
	Note   string
}

// Settings holds the user's safety thresholds. The engine reads these as-is;
// bounds are a storefront concern.
type Settings struct {
	MinimumSafeBalance float64 // may be negative to express an overdraft allowance
	SafetyBufferDays   int
}

// DateOnly normalizes t to a timezone-naive calendar date (UTC midnight).
// All engine date math runs on normalized dates so DST and zone offsets
// cannot shift day boundaries.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaySpan returns the inclusive number of calendar days between two dates.
// DaySpan(d, d) == 1.
func DaySpan(from, to time.Time) int {
	from = DateOnly(from)
	to = DateOnly(to)
	return int(to.Sub(from).Hours()/24) + 1
}

package model

// TrendDirection classifies month-over-month category movement.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// CategoryTrend compares one category's current-month spend against its
// previous month and its own 3-month trailing average.
type CategoryTrend struct {
	CategoryID       string
	CategoryName     string
	CurrentMonth     float64
	PreviousMonth    float64
	ThreeMonthAvg    float64
	PercentChange    float64
	Trend            TrendDirection
	IsUnusual        bool
	TransactionCount int
}

// TrendReport aggregates all category trends for a target month.
// Trends is sorted by current-month amount descending.
type TrendReport struct {
	Trends               []CategoryTrend
	TotalCurrentMonth    float64
	TotalPreviousMonth   float64
	OverallPercentChange float64
	TopCategories        []CategoryTrend
	UnusualCategories    []CategoryTrend
	AverageDaily         float64
}

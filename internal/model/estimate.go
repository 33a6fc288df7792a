package model

// SpendingEstimate is the robust daily-spend baseline computed from expense
// history. TransactionsIncluded + TransactionsExcluded always equals the
// number of expense rows considered.
type SpendingEstimate struct {
	AverageDaily         float64
	Confidence           Confidence
	DaysAnalyzed         int
	TransactionsIncluded int
	TransactionsExcluded int
	TotalSpending        float64
	MedianAmount         float64
}

// Package engine holds the analytics core: daily-spend estimation, balance
// forecasting, and category trend analysis. All functions here are pure:
// they read their arguments, allocate local state, and return fresh results.
package engine

import (
	"sort"

	"github.com/oleksii-sytar/fincast/internal/model"
)

// DefaultOutlierThreshold is the multiplier applied to the median expense
// amount; anything above it is treated as a one-time purchase, not
// representative daily spend.
const DefaultOutlierThreshold = 3.0

// minBaselineDays is the shortest history the outlier logic is trusted on.
const minBaselineDays = 14

// Estimate computes a robust average-daily-spending baseline from expense
// history. Income rows are ignored. Pass outlierThreshold <= 0 to use the
// default of 3x the median.
func Estimate(txns []model.Transaction, outlierThreshold float64) model.SpendingEstimate {
	if outlierThreshold <= 0 {
		outlierThreshold = DefaultOutlierThreshold
	}

	var expenses []model.Transaction
	for _, tx := range txns {
		if tx.Type == model.Expense {
			expenses = append(expenses, tx)
		}
	}
	if len(expenses) == 0 {
		return model.SpendingEstimate{Confidence: model.ConfidenceNone}
	}

	minDate := model.DateOnly(expenses[0].Date)
	maxDate := minDate
	for _, tx := range expenses[1:] {
		d := model.DateOnly(tx.Date)
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}
	days := model.DaySpan(minDate, maxDate)

	// Under two weeks of history the median is not a trustworthy reference
	// point, so every expense counts and the ladder reports none.
	if days < minBaselineDays {
		var total float64
		for _, tx := range expenses {
			total += tx.Amount
		}
		return model.SpendingEstimate{
			AverageDaily:         total / float64(days),
			Confidence:           confidenceForDays(days),
			DaysAnalyzed:         days,
			TransactionsIncluded: len(expenses),
			TotalSpending:        total,
			MedianAmount:         medianAmount(expenses),
		}
	}

	median := medianAmount(expenses)
	cutoff := median * outlierThreshold

	var (
		total    float64
		included int
		excluded int
	)
	for _, tx := range expenses {
		if tx.Amount > cutoff {
			excluded++
			continue
		}
		total += tx.Amount
		included++
	}

	confidence := confidenceForDays(days)

	// Pathological data: every row lands above the cutoff. Fall back to
	// counting everything, with low confidence signaling that outlier
	// detection had no usable reference point.
	if included == 0 {
		total = 0
		for _, tx := range expenses {
			total += tx.Amount
		}
		included = len(expenses)
		excluded = 0
		confidence = model.ConfidenceLow
	}

	return model.SpendingEstimate{
		AverageDaily:         total / float64(days),
		Confidence:           confidence,
		DaysAnalyzed:         days,
		TransactionsIncluded: included,
		TransactionsExcluded: excluded,
		TotalSpending:        total,
		MedianAmount:         median,
	}
}

// confidenceForDays maps the analyzed day span onto the trust ladder.
func confidenceForDays(days int) model.Confidence {
	switch {
	case days >= 30:
		return model.ConfidenceHigh
	case days >= minBaselineDays:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceNone
	}
}

// medianAmount returns the median expense amount; for even-length input it
// is the mean of the two central values.
func medianAmount(txns []model.Transaction) float64 {
	if len(txns) == 0 {
		return 0
	}
	amounts := make([]float64, len(txns))
	for i, tx := range txns {
		amounts[i] = tx.Amount
	}
	sort.Float64s(amounts)

	mid := len(amounts) / 2
	if len(amounts)%2 == 0 {
		return (amounts[mid-1] + amounts[mid]) / 2
	}
	return amounts[mid]
}

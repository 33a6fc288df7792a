// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/oleksii-sytar/fincast/internal/model"
)

// FormatMoney formats an amount with a currency sign and thousands
// separators. e.g., 1234.5 -> "$1,234.50", -90 -> "-$90.00"
func FormatMoney(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}
	return fmt.Sprintf("%s$%s.%02d", sign, FormatNumber(whole), cents)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a percent-change value with an explicit sign.
// e.g., 12.345 -> "+12.3%", -5 -> "-5.0%"
func FormatPercent(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDate renders a calendar date the way fincast displays it everywhere.
func FormatDate(d time.Time) string {
	return d.Format("2006-01-02")
}

// FormatDayOfWeek returns a 3-letter day abbreviation.
func FormatDayOfWeek(d time.Time) string {
	return d.Format("Mon")
}

// FormatMonth renders a year/month pair, e.g. "March 2025".
func FormatMonth(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}

// FormatTrendArrow maps a trend direction to an arrow glyph.
func FormatTrendArrow(d model.TrendDirection) string {
	switch d {
	case model.TrendIncreasing:
		return "↑"
	case model.TrendDecreasing:
		return "↓"
	default:
		return "→"
	}
}

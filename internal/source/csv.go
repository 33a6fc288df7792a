// Package source parses bank CSV exports into ledger transactions.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oleksii-sytar/fincast/internal/model"
)

// Recognized header names, lowercased. Exports differ wildly in casing and
// ordering; the mapping is resolved from the header row.
var columnAliases = map[string]string{
	"date":             "date",
	"transaction date": "date",
	"posted":           "date",
	"amount":           "amount",
	"value":            "amount",
	"type":             "type",
	"category":         "category",
	"description":      "note",
	"note":             "note",
	"memo":             "note",
}

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
}

// RowError records one rejected CSV row.
type RowError struct {
	Line int
	Err  error
}

// ParseResult holds parsed transactions plus per-row rejection detail, in
// the same spirit as counting parse errors instead of aborting the import.
type ParseResult struct {
	Transactions []model.Transaction
	RowErrors    []RowError
}

// ParseFile reads a CSV export from disk.
func ParseFile(path string) (ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{}, err
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads a CSV export. The first row must be a header containing at
// least date and amount columns. Rows that fail to parse are collected in
// RowErrors; the rest import normally.
func Parse(r io.Reader) (ParseResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ParseResult{}, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int)
	for i, name := range header {
		if canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			if _, taken := cols[canonical]; !taken {
				cols[canonical] = i
			}
		}
	}
	if _, ok := cols["date"]; !ok {
		return ParseResult{}, fmt.Errorf("no date column in header %v", header)
	}
	if _, ok := cols["amount"]; !ok {
		return ParseResult{}, fmt.Errorf("no amount column in header %v", header)
	}

	var result ParseResult
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Line: line, Err: err})
			continue
		}

		tx, err := parseRow(record, cols)
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Line: line, Err: err})
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	return result, nil
}

func parseRow(record []string, cols map[string]int) (model.Transaction, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := parseDate(field("date"))
	if err != nil {
		return model.Transaction{}, err
	}

	rawAmount := strings.ReplaceAll(field("amount"), ",", "")
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("bad amount %q", field("amount"))
	}

	// Type column wins when present; otherwise the sign decides, the usual
	// bank-export convention where outflows are negative.
	var txType model.TxType
	switch strings.ToLower(field("type")) {
	case "income":
		txType = model.Income
	case "expense":
		txType = model.Expense
	case "":
		if amount < 0 {
			txType = model.Expense
		} else {
			txType = model.Income
		}
	default:
		return model.Transaction{}, fmt.Errorf("unknown type %q", field("type"))
	}
	if amount < 0 {
		amount = -amount
	}

	category := field("category")
	return model.Transaction{
		Amount:       amount,
		Date:         date,
		Type:         txType,
		CategoryID:   slugify(category),
		CategoryName: category,
		Note:         field("note"),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}

// slugify turns a display label into a stable category ID.
func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

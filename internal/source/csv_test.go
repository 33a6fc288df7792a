package source

import (
	"strings"
	"testing"
	"time"

	"github.com/oleksii-sytar/fincast/internal/model"
)

func parseLines(t *testing.T, lines ...string) ParseResult {
	t.Helper()
	result, err := Parse(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func TestParse_TypedExport(t *testing.T) {
	result := parseLines(t,
		"Date,Amount,Type,Category,Note",
		"2025-03-01,120.50,expense,Food,groceries",
		"2025-03-02,3000,income,Salary,",
	)

	if len(result.Transactions) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(result.Transactions))
	}
	first := result.Transactions[0]
	if first.Amount != 120.50 || first.Type != model.Expense {
		t.Errorf("first row = %+v", first)
	}
	if first.CategoryID != "food" || first.CategoryName != "Food" {
		t.Errorf("category = %q/%q, want food/Food", first.CategoryID, first.CategoryName)
	}
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", first.Date, want)
	}
}

func TestParse_SignConvention(t *testing.T) {
	// No type column: negative amounts are outflows.
	result := parseLines(t,
		"date,amount,description",
		"2025-03-01,-45.00,coffee",
		"2025-03-02,1000.00,refund",
	)

	if len(result.Transactions) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(result.Transactions))
	}
	if result.Transactions[0].Type != model.Expense || result.Transactions[0].Amount != 45 {
		t.Errorf("negative row = %+v, want expense of 45", result.Transactions[0])
	}
	if result.Transactions[1].Type != model.Income {
		t.Errorf("positive row Type = %s, want income", result.Transactions[1].Type)
	}
	if result.Transactions[0].Note != "coffee" {
		t.Errorf("Note = %q, want coffee", result.Transactions[0].Note)
	}
}

func TestParse_BadRowsCollectedNotFatal(t *testing.T) {
	result := parseLines(t,
		"date,amount,type",
		"2025-03-01,100,expense",
		"not-a-date,100,expense",
		"2025-03-03,abc,expense",
		"2025-03-04,50,teleport",
		"2025-03-05,75,income",
	)

	if len(result.Transactions) != 2 {
		t.Errorf("parsed %d rows, want 2", len(result.Transactions))
	}
	if len(result.RowErrors) != 3 {
		t.Fatalf("collected %d row errors, want 3", len(result.RowErrors))
	}
	if result.RowErrors[0].Line != 3 {
		t.Errorf("first bad line = %d, want 3", result.RowErrors[0].Line)
	}
}

func TestParse_HeaderAliasesAndDateLayouts(t *testing.T) {
	result := parseLines(t,
		"Transaction Date,Value,Memo",
		"15.03.2025,-10,bus",
		"03/16/2025,-20,tram",
	)

	if len(result.Transactions) != 2 {
		t.Fatalf("parsed %d rows, want 2: errors %v", len(result.Transactions), result.RowErrors)
	}
	if got := result.Transactions[0].Date; !got.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("dotted date = %v, want 2025-03-15", got)
	}
	if got := result.Transactions[1].Date; !got.Equal(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("slashed date = %v, want 2025-03-16", got)
	}
}

func TestParse_MissingRequiredColumns(t *testing.T) {
	if _, err := Parse(strings.NewReader("amount,type\n1,income\n")); err == nil {
		t.Error("want error for missing date column")
	}
	if _, err := Parse(strings.NewReader("date,type\n2025-01-01,income\n")); err == nil {
		t.Error("want error for missing amount column")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Food":          "food",
		"Eating  Out":   "eating-out",
		"":              "",
		" Pet Supplies": "pet-supplies",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

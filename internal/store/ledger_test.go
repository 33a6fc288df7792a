package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oleksii-sytar/fincast/internal/model"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func TestLedger_InsertAndLoadRoundTrip(t *testing.T) {
	l := openTestLedger(t)

	n, err := l.InsertTransactions([]model.Transaction{
		{Amount: 120.50, Date: mustDate(t, "2025-03-01"), Type: model.Expense, CategoryID: "food", CategoryName: "Food", Note: "groceries"},
		{Amount: 3000, Date: mustDate(t, "2025-03-02"), Type: model.Income, CategoryID: "salary", CategoryName: "Salary"},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted %d rows, want 2", n)
	}

	txns, err := l.Transactions(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("loaded %d rows, want 2", len(txns))
	}
	if txns[0].Amount != 120.50 || txns[0].Type != model.Expense || txns[0].Note != "groceries" {
		t.Errorf("first row mismatch: %+v", txns[0])
	}
	if !txns[0].Date.Equal(mustDate(t, "2025-03-01")) {
		t.Errorf("Date = %v, want 2025-03-01", txns[0].Date)
	}
}

func TestLedger_UncategorizedSentinel(t *testing.T) {
	l := openTestLedger(t)

	if _, err := l.InsertTransactions([]model.Transaction{
		{Amount: 10, Date: mustDate(t, "2025-03-01"), Type: model.Expense},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	txns, err := l.Transactions(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if txns[0].CategoryID != UncategorizedID {
		t.Errorf("CategoryID = %q, want %q", txns[0].CategoryID, UncategorizedID)
	}
	if txns[0].CategoryName != UncategorizedName {
		t.Errorf("CategoryName = %q, want %q", txns[0].CategoryName, UncategorizedName)
	}
}

func TestLedger_DateRangeIsInclusive(t *testing.T) {
	l := openTestLedger(t)

	var txns []model.Transaction
	for d := 1; d <= 10; d++ {
		txns = append(txns, model.Transaction{
			Amount: float64(d),
			Date:   time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC),
			Type:   model.Expense,
		})
	}
	if _, err := l.InsertTransactions(txns); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := l.Transactions(mustDate(t, "2025-03-03"), mustDate(t, "2025-03-07"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("loaded %d rows, want 5 (inclusive bounds)", len(got))
	}
	if got[0].Amount != 3 || got[4].Amount != 7 {
		t.Errorf("range edges = %.0f..%.0f, want 3..7", got[0].Amount, got[4].Amount)
	}
}

func TestLedger_PlannedRoundTrip(t *testing.T) {
	l := openTestLedger(t)

	if _, err := l.InsertPlanned([]model.PlannedTransaction{
		{Amount: 1500, Date: mustDate(t, "2025-04-01"), Type: model.Income, Note: "salary"},
		{Amount: 800, Date: mustDate(t, "2025-04-05"), Type: model.Expense, Note: "rent"},
	}); err != nil {
		t.Fatalf("insert planned: %v", err)
	}

	planned, err := l.Planned(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("load planned: %v", err)
	}
	if len(planned) != 2 {
		t.Fatalf("loaded %d planned rows, want 2", len(planned))
	}
	if planned[1].Type != model.Expense || planned[1].Amount != 800 {
		t.Errorf("second planned row mismatch: %+v", planned[1])
	}
}

func TestLedger_BalanceAndStats(t *testing.T) {
	l := openTestLedger(t)

	if _, err := l.InsertTransactions([]model.Transaction{
		{Amount: 3000, Date: mustDate(t, "2025-03-01"), Type: model.Income},
		{Amount: 1200, Date: mustDate(t, "2025-03-10"), Type: model.Expense},
		{Amount: 300, Date: mustDate(t, "2025-03-20"), Type: model.Expense},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	balance, err := l.Balance()
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 1500 {
		t.Errorf("Balance = %.2f, want 1500", balance)
	}

	st, err := l.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Transactions != 3 {
		t.Errorf("Stats.Transactions = %d, want 3", st.Transactions)
	}
	if !st.EarliestDate.Equal(mustDate(t, "2025-03-01")) || !st.LatestDate.Equal(mustDate(t, "2025-03-20")) {
		t.Errorf("date range = %v..%v, want 2025-03-01..2025-03-20", st.EarliestDate, st.LatestDate)
	}
}

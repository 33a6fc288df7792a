package daemon

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oleksii-sytar/fincast/internal/model"
	"github.com/oleksii-sytar/fincast/internal/obs"
	"github.com/oleksii-sytar/fincast/internal/store"
)

func testService(t *testing.T, ledgerPath string) *Service {
	t.Helper()
	return New(Config{
		LedgerPath:   ledgerPath,
		LookbackDays: 90,
		HorizonDays:  14,
		Settings:     model.Settings{MinimumSafeBalance: 0, SafetyBufferDays: 3},
		Interval:     5 * time.Second,
		EventsBuffer: 3,
	}, obs.NewLogger(obs.ModeTest))
}

func seedLedger(t *testing.T, path string, historyDays int, daily float64) {
	t.Helper()
	ledger, err := store.Open(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer func() { _ = ledger.Close() }()

	today := model.DateOnly(time.Now())
	var txns []model.Transaction
	txns = append(txns, model.Transaction{
		Amount: daily * float64(historyDays) * 10,
		Date:   today.AddDate(0, 0, -historyDays),
		Type:   model.Income,
	})
	for i := historyDays; i >= 1; i-- {
		txns = append(txns, model.Transaction{
			Amount:       daily,
			Date:         today.AddDate(0, 0, -i),
			Type:         model.Expense,
			CategoryID:   "groceries",
			CategoryName: "Groceries",
		})
	}
	if _, err := ledger.InsertTransactions(txns); err != nil {
		t.Fatalf("insert transactions: %v", err)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	s := New(Config{}, obs.NewLogger(obs.ModeTest))

	if s.cfg.Interval != 30*time.Second {
		t.Errorf("Interval = %v, want 30s", s.cfg.Interval)
	}
	if s.cfg.EventsBuffer != 200 {
		t.Errorf("EventsBuffer = %d, want 200", s.cfg.EventsBuffer)
	}
	if s.cfg.Addr == "" {
		t.Error("Addr is empty, want a default bind address")
	}
	if s.cfg.LookbackDays != 90 || s.cfg.HorizonDays != 30 {
		t.Errorf("window defaults = %d/%d, want 90/30", s.cfg.LookbackDays, s.cfg.HorizonDays)
	}
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Balance: 1000, Transactions: 10, Planned: 2}
	curr := Snapshot{Balance: 850, Transactions: 13, Planned: 2}

	delta := diffSnapshots(prev, curr)

	if delta.Balance != -150 {
		t.Errorf("Balance delta = %v, want -150", delta.Balance)
	}
	if delta.Transactions != 3 {
		t.Errorf("Transactions delta = %d, want 3", delta.Transactions)
	}
	if delta.Planned != 0 {
		t.Errorf("Planned delta = %d, want 0", delta.Planned)
	}
	if delta.isZero() {
		t.Error("isZero() = true for a non-zero delta")
	}
	if !diffSnapshots(prev, prev).isZero() {
		t.Error("isZero() = false for identical snapshots")
	}
}

func TestPublishEvent_TrimsRingBuffer(t *testing.T) {
	s := testService(t, filepath.Join(t.TempDir(), "ledger.db"))

	for i := 1; i <= 5; i++ {
		s.publishEvent(Event{ID: int64(i), Type: "forecast_delta"})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(s.events))
	}
	if s.events[0].ID != 3 || s.events[2].ID != 5 {
		t.Errorf("events span IDs %d..%d, want 3..5", s.events[0].ID, s.events[2].ID)
	}
}

func TestComputeSnapshot_BuildsForecastSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	seedLedger(t, path, 30, 100)
	s := testService(t, path)

	res, err := s.computeSnapshot()
	if err != nil {
		t.Fatalf("computeSnapshot: %v", err)
	}
	if !res.changed {
		t.Fatal("changed = false on first poll")
	}

	snap := res.snapshot
	if !snap.ShouldDisplay {
		t.Error("ShouldDisplay = false with 30 days of history")
	}
	if snap.SpendingConfidence != "high" {
		t.Errorf("SpendingConfidence = %q, want high", snap.SpendingConfidence)
	}
	if snap.Transactions != 31 {
		t.Errorf("Transactions = %d, want 31", snap.Transactions)
	}
	if snap.AverageDaily < 99 || snap.AverageDaily > 101 {
		t.Errorf("AverageDaily = %v, want ~100", snap.AverageDaily)
	}
	if snap.DaysUntilDanger != -1 {
		t.Errorf("DaysUntilDanger = %d, want -1 for a healthy balance", snap.DaysUntilDanger)
	}
}

func TestComputeSnapshot_UnchangedLedgerIsAHit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	seedLedger(t, path, 20, 50)
	s := testService(t, path)

	first, err := s.computeSnapshot()
	if err != nil {
		t.Fatalf("first poll: %v", err)
	}
	s.mu.Lock()
	s.hasSnapshot = true
	s.snapshot = first.snapshot
	s.mu.Unlock()

	second, err := s.computeSnapshot()
	if err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if second.changed {
		t.Error("changed = true although the ledger did not move")
	}

	usage := s.UsageStats()
	if usage.Hits != 1 || usage.Misses != 1 {
		t.Errorf("usage = %d hits / %d misses, want 1/1", usage.Hits, usage.Misses)
	}
}

func TestComputeSnapshot_DangerHorizon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ledger, err := store.Open(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	today := model.DateOnly(time.Now())
	var txns []model.Transaction
	// Income of 350 against 100/day spending: the balance crosses the
	// danger floor within the horizon.
	txns = append(txns, model.Transaction{Amount: 3350, Date: today.AddDate(0, 0, -30), Type: model.Income})
	for i := 30; i >= 1; i-- {
		txns = append(txns, model.Transaction{Amount: 100, Date: today.AddDate(0, 0, -i), Type: model.Expense})
	}
	if _, err := ledger.InsertTransactions(txns); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_ = ledger.Close()

	s := testService(t, path)
	res, err := s.computeSnapshot()
	if err != nil {
		t.Fatalf("computeSnapshot: %v", err)
	}

	snap := res.snapshot
	if snap.Balance != 350 {
		t.Fatalf("Balance = %v, want 350", snap.Balance)
	}
	if snap.DaysUntilDanger == -1 {
		t.Error("DaysUntilDanger = -1, want a crossing within the horizon")
	}
	if snap.LowestBalance >= snap.Balance {
		t.Errorf("LowestBalance = %v, want below starting balance %v", snap.LowestBalance, snap.Balance)
	}
}

func TestPollOnce_FirstPollEmitsSnapshotEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	seedLedger(t, path, 15, 40)
	s := testService(t, path)

	s.pollOnce()

	status := s.snapshotStatus()
	if status.PollCount != 1 {
		t.Errorf("PollCount = %d, want 1", status.PollCount)
	}
	if status.EventCount != 1 {
		t.Fatalf("EventCount = %d, want 1", status.EventCount)
	}
	s.mu.RLock()
	ev := s.events[0]
	s.mu.RUnlock()
	if ev.Type != "snapshot" {
		t.Errorf("event type = %q, want snapshot", ev.Type)
	}

	// A second poll against an untouched ledger publishes nothing.
	s.pollOnce()
	status = s.snapshotStatus()
	if status.EventCount != 1 {
		t.Errorf("EventCount after idle poll = %d, want still 1", status.EventCount)
	}
}

func TestPollOnce_RecordsErrorOnBadLedgerPath(t *testing.T) {
	s := testService(t, filepath.Join(t.TempDir(), "missing", "nested", "ledger.db"))
	// Point at an unwritable location so Open fails.
	s.cfg.LedgerPath = string([]byte{0}) + "/ledger.db"

	s.pollOnce()

	status := s.snapshotStatus()
	if status.LastError == "" {
		t.Error("LastError is empty after a failed poll")
	}
	errs, attempts := s.tracker.Totals()
	if errs != 1 || attempts != 1 {
		t.Errorf("tracker totals = %d errors / %d attempts, want 1/1", errs, attempts)
	}
}

package obs

import (
	"errors"
	"fmt"
	"testing"
)

type staticUsage struct{ stats UsageStats }

func (s staticUsage) UsageStats() UsageStats { return s.stats }

func newTracker(t *testing.T) *ErrorTracker {
	t.Helper()
	return NewErrorTracker(NewLogger(ModeTest))
}

func TestCollector_HealthyByDefault(t *testing.T) {
	et := newTracker(t)
	for i := 0; i < 100; i++ {
		et.RecordAttempt()
	}

	snap := NewCollector(et, staticUsage{UsageStats{Hits: 9, Misses: 1}}).Collect()
	if snap.Health != HealthHealthy {
		t.Errorf("Health = %s, want healthy", snap.Health)
	}
	if snap.TotalOperations != 100 || snap.TotalErrors != 0 {
		t.Errorf("totals = %d ops / %d errors, want 100/0", snap.TotalOperations, snap.TotalErrors)
	}
}

func TestCollector_UnhealthyOnHotCounter(t *testing.T) {
	et := newTracker(t)
	boom := errors.New("boom")
	for i := 0; i < 1000; i++ {
		et.RecordAttempt()
	}
	for i := 0; i < ErrorThreshold; i++ {
		et.Track("store", "load", boom)
	}

	snap := NewCollector(et, nil).Collect()
	if snap.Health != HealthUnhealthy {
		t.Errorf("Health = %s, want unhealthy when one counter hits %d", snap.Health, ErrorThreshold)
	}
}

func TestCollector_RateBands(t *testing.T) {
	boom := errors.New("boom")

	cases := []struct {
		attempts int
		errs     int
		want     Health
	}{
		{1000, 3, HealthHealthy},   // 0.3%
		{1000, 30, HealthDegraded}, // 3%
		{100, 6, HealthUnhealthy},  // 6%
	}
	for _, c := range cases {
		et := newTracker(t)
		for i := 0; i < c.attempts; i++ {
			et.RecordAttempt()
		}
		// Spread errors across keys so no single counter crosses the threshold.
		for i := 0; i < c.errs; i++ {
			et.Track("store", fmt.Sprintf("op%d", i%5), boom)
		}

		snap := NewCollector(et, nil).Collect()
		if snap.Health != c.want {
			t.Errorf("%d/%d errors: Health = %s, want %s", c.errs, c.attempts, snap.Health, c.want)
		}
	}
}

func TestCollector_DegradedOnLowHitRate(t *testing.T) {
	et := newTracker(t)
	et.RecordAttempt()

	snap := NewCollector(et, staticUsage{UsageStats{Hits: 1, Misses: 9}}).Collect()
	if snap.Health != HealthDegraded {
		t.Errorf("Health = %s, want degraded on 10%% hit rate", snap.Health)
	}
}

func TestCollector_TopErrorsOrderedAndCapped(t *testing.T) {
	et := newTracker(t)
	boom := errors.New("boom")
	for i := 0; i < 12; i++ {
		for j := 0; j <= i%3; j++ {
			et.Track("cat", fmt.Sprintf("op%02d", i), boom)
		}
	}

	snap := NewCollector(et, nil).Collect()
	if len(snap.TopErrors) != 10 {
		t.Fatalf("len(TopErrors) = %d, want 10", len(snap.TopErrors))
	}
	for i := 1; i < len(snap.TopErrors); i++ {
		if snap.TopErrors[i].Count > snap.TopErrors[i-1].Count {
			t.Fatalf("TopErrors not sorted descending at %d", i)
		}
	}
	if snap.ByCategory["cat"] != snap.TotalErrors {
		t.Errorf("ByCategory[cat] = %d, want %d", snap.ByCategory["cat"], snap.TotalErrors)
	}
}

func TestUsageStats_HitRate(t *testing.T) {
	if got := (UsageStats{}).HitRate(); got != 1 {
		t.Errorf("empty HitRate = %.2f, want 1", got)
	}
	if got := (UsageStats{Hits: 3, Misses: 1}).HitRate(); got != 0.75 {
		t.Errorf("HitRate = %.2f, want 0.75", got)
	}
}

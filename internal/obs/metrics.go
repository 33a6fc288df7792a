package obs

import (
	"sort"
	"time"
)

// Health is the coarse verdict derived from error counters and usage stats.
type Health string

const (
	HealthHealthy   Health = "healthy"
	HealthDegraded  Health = "degraded"
	HealthUnhealthy Health = "unhealthy"
)

// Error-rate bands for the health verdict.
const (
	unhealthyErrorRate = 0.05
	degradedErrorRate  = 0.01
	lowHitRate         = 0.5
	topCounters        = 10
)

// UsageStats describes an external cache or throughput source.
type UsageStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// HitRate returns hits/(hits+misses), or 1 when nothing was observed yet.
func (u UsageStats) HitRate() float64 {
	total := u.Hits + u.Misses
	if total == 0 {
		return 1
	}
	return float64(u.Hits) / float64(total)
}

// UsageSource supplies UsageStats on demand.
type UsageSource interface {
	UsageStats() UsageStats
}

// CounterStat is one error counter in a snapshot.
type CounterStat struct {
	Category  string `json:"category"`
	Operation string `json:"operation"`
	Count     int64  `json:"count"`
}

// Snapshot is a point-in-time health report. Reads tolerate slightly stale
// counter data rather than blocking writers.
type Snapshot struct {
	At              time.Time        `json:"at"`
	Health          Health           `json:"health"`
	TotalErrors     int64            `json:"total_errors"`
	TotalOperations int64            `json:"total_operations"`
	ErrorRate       float64          `json:"error_rate"`
	TopErrors       []CounterStat    `json:"top_errors"`
	ByCategory      map[string]int64 `json:"by_category"`
	Usage           UsageStats       `json:"usage"`
}

// Collector assembles snapshots from an error tracker and a usage source.
type Collector struct {
	tracker *ErrorTracker
	source  UsageSource
}

// NewCollector builds a collector. source may be nil when no cache stats
// exist; the hit-rate check is then skipped.
func NewCollector(tracker *ErrorTracker, source UsageSource) *Collector {
	return &Collector{tracker: tracker, source: source}
}

// Collect assembles a snapshot and derives the health verdict.
func (c *Collector) Collect() Snapshot {
	counts := c.tracker.Counts()

	snap := Snapshot{
		At:         time.Now().UTC(),
		ByCategory: make(map[string]int64),
	}

	counters := make([]CounterStat, 0, len(counts))
	var maxCount int64
	for key, count := range counts {
		counters = append(counters, CounterStat{
			Category:  key.Category,
			Operation: key.Operation,
			Count:     count,
		})
		snap.ByCategory[key.Category] += count
		snap.TotalErrors += count
		if count > maxCount {
			maxCount = count
		}
	}
	sort.Slice(counters, func(i, j int) bool {
		if counters[i].Count != counters[j].Count {
			return counters[i].Count > counters[j].Count
		}
		if counters[i].Category != counters[j].Category {
			return counters[i].Category < counters[j].Category
		}
		return counters[i].Operation < counters[j].Operation
	})
	if len(counters) > topCounters {
		counters = counters[:topCounters]
	}
	snap.TopErrors = counters

	_, snap.TotalOperations = c.tracker.Totals()
	if snap.TotalOperations > 0 {
		snap.ErrorRate = float64(snap.TotalErrors) / float64(snap.TotalOperations)
	}

	hitRate := 1.0
	if c.source != nil {
		snap.Usage = c.source.UsageStats()
		hitRate = snap.Usage.HitRate()
	}

	switch {
	case maxCount >= ErrorThreshold || snap.ErrorRate > unhealthyErrorRate:
		snap.Health = HealthUnhealthy
	case snap.ErrorRate >= degradedErrorRate || hitRate < lowHitRate:
		snap.Health = HealthDegraded
	default:
		snap.Health = HealthHealthy
	}

	return snap
}

package obs

import "sync"

// ErrorThreshold is the per-(category, operation) count at which the tracker
// escalates with a distinct threshold log.
const ErrorThreshold = 10

// CounterKey identifies one tracked error counter.
type CounterKey struct {
	Category  string
	Operation string
}

// ErrorTracker keeps process-wide error counters. Counters live for the
// process and are only cleared by an explicit Reset, typically in test
// teardown. Increments are mutex-guarded so concurrent bursts never lose
// updates.
type ErrorTracker struct {
	log *Logger

	mu       sync.Mutex
	counts   map[CounterKey]int64
	attempts int64
}

// NewErrorTracker builds a tracker logging through lg.
func NewErrorTracker(lg *Logger) *ErrorTracker {
	return &ErrorTracker{
		log:    lg,
		counts: make(map[CounterKey]int64),
	}
}

// Track counts one error occurrence and logs it. Crossing ErrorThreshold
// emits one additional escalation log distinct from the per-occurrence one.
func (et *ErrorTracker) Track(category, operation string, err error) {
	key := CounterKey{Category: category, Operation: operation}

	et.mu.Lock()
	et.counts[key]++
	count := et.counts[key]
	et.mu.Unlock()

	et.log.Error("tracked error", err, Fields{
		"category":  category,
		"operation": operation,
		"count":     count,
	})

	if count == ErrorThreshold {
		et.log.Warn("error threshold exceeded", Fields{
			"category":  category,
			"operation": operation,
			"count":     count,
			"threshold": ErrorThreshold,
		})
	}
}

// RecordAttempt counts one operation attempt, tracked or not. The ratio of
// errors to attempts feeds the health verdict.
func (et *ErrorTracker) RecordAttempt() {
	et.mu.Lock()
	et.attempts++
	et.mu.Unlock()
}

// Counts returns a point-in-time copy of all counters.
func (et *ErrorTracker) Counts() map[CounterKey]int64 {
	et.mu.Lock()
	defer et.mu.Unlock()

	out := make(map[CounterKey]int64, len(et.counts))
	for k, v := range et.counts {
		out[k] = v
	}
	return out
}

// Totals returns the error and attempt totals.
func (et *ErrorTracker) Totals() (errors, attempts int64) {
	et.mu.Lock()
	defer et.mu.Unlock()

	for _, v := range et.counts {
		errors += v
	}
	return errors, et.attempts
}

// Reset clears every counter.
func (et *ErrorTracker) Reset() {
	et.mu.Lock()
	et.counts = make(map[CounterKey]int64)
	et.attempts = 0
	et.mu.Unlock()
}

// Tracked runs fn, counting the attempt and, on failure, the error under
// (category, operation). The result and error pass through unchanged, so the
// caller's control flow is unaffected.
func Tracked[T any](et *ErrorTracker, category, operation string, fn func() (T, error)) (T, error) {
	et.RecordAttempt()
	result, err := fn()
	if err != nil {
		et.Track(category, operation, err)
	}
	return result, err
}

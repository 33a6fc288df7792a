package obs

import (
	"context"
	"time"
)

// Duration thresholds for classifying how loudly to report an operation.
const (
	slowWarnAfter = 2 * time.Second
	slowInfoAfter = 1 * time.Second
)

// Timer measures one operation's wall-clock duration.
type Timer struct {
	log   *Logger
	op    string
	start time.Time
}

// StartTimer begins measuring the named operation.
func (lg *Logger) StartTimer(op string) *Timer {
	return &Timer{log: lg, op: op, start: time.Now()}
}

// End records the elapsed duration and returns it. Severity scales with how
// slow the operation was.
func (t *Timer) End() time.Duration {
	elapsed := time.Since(t.start)
	fields := Fields{
		"operation":   t.op,
		"duration_ms": elapsed.Milliseconds(),
	}

	switch {
	case elapsed > slowWarnAfter:
		t.log.Warn("operation slow", fields)
	case elapsed > slowInfoAfter:
		t.log.Info("operation completed", fields)
	default:
		t.log.Debug("operation completed", fields)
	}

	return elapsed
}

// Timed runs fn and records its duration whether it succeeds or fails; the
// result and error pass through unchanged.
func Timed[T any](lg *Logger, op string, fn func() (T, error)) (T, error) {
	timer := lg.StartTimer(op)
	defer timer.End()
	return fn()
}

// TimedCtx is Timed for context-aware operations.
func TimedCtx[T any](ctx context.Context, lg *Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	timer := lg.StartTimer(op)
	defer timer.End()
	return fn(ctx)
}

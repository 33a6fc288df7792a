// Package obs provides the observability side-channel: structured logging,
// duration tracking, error counting, and health metrics. Nothing here sits in
// the critical path of an analytics result.
package obs

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
)

// Mode selects the execution environment the logger adapts to.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
	ModeTest        Mode = "test"
)

// DetectMode reads FINCAST_ENV. Anything unrecognized is production.
func DetectMode() Mode {
	switch os.Getenv("FINCAST_ENV") {
	case "development", "dev":
		return ModeDevelopment
	case "test":
		return ModeTest
	default:
		return ModeProduction
	}
}

// Fields carries optional structured context on a log entry.
type Fields = logrus.Fields

// Logger emits line-oriented JSON records suitable for any log pipeline.
// Debug entries only appear in development mode; in test mode all output is
// discarded unless a test re-enables it with EnableOutput.
type Logger struct {
	l    *logrus.Logger
	mode Mode
}

// NewLogger builds a logger for the given mode writing to stderr.
func NewLogger(mode Mode) *Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)

	switch mode {
	case ModeDevelopment:
		l.SetLevel(logrus.DebugLevel)
	case ModeTest:
		l.SetOutput(io.Discard)
	}

	return &Logger{l: l, mode: mode}
}

// Mode reports the mode this logger was built for.
func (lg *Logger) Mode() Mode { return lg.mode }

// EnableOutput redirects log output to w, overriding test-mode suppression.
// Intended for tests that assert on log lines.
func (lg *Logger) EnableOutput(w io.Writer) {
	lg.l.SetOutput(w)
	lg.l.SetLevel(logrus.DebugLevel)
}

func (lg *Logger) Debug(msg string, fields Fields) {
	lg.l.WithFields(fields).Debug(msg)
}

func (lg *Logger) Info(msg string, fields Fields) {
	lg.l.WithFields(fields).Info(msg)
}

func (lg *Logger) Warn(msg string, fields Fields) {
	lg.l.WithFields(fields).Warn(msg)
}

// Error logs msg with the error's message, concrete type, and the current
// stack attached.
func (lg *Logger) Error(msg string, err error, fields Fields) {
	entry := lg.l.WithFields(fields)
	if err != nil {
		entry = entry.WithFields(Fields{
			"error":      err.Error(),
			"error_type": fmt.Sprintf("%T", err),
			"stack":      string(debug.Stack()),
		})
	}
	entry.Error(msg)
}

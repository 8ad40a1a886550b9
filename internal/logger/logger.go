// Package logger provides internal logging helpers for tests.
package logger

import (
	"fmt"
	"strings"
	"testing"

	"github.com/foundryeval/foundryeval-go/logger"
)

// failTestLogger writes log output through t.Logf and fails the test on any
// Error call. Warn and below are informational.
type failTestLogger struct {
	t *testing.T
}

// NewFailTestLogger returns a Logger bound to the given test. Error-level
// messages fail the test immediately so misbehaving code paths surface in CI.
func NewFailTestLogger(t *testing.T) logger.Logger {
	return &failTestLogger{t: t}
}

func (l *failTestLogger) Debug(msg string, keysAndValues ...any) {
	l.t.Helper()
	l.t.Logf("DEBUG %s%s", msg, formatKVs(keysAndValues))
}

func (l *failTestLogger) Info(msg string, keysAndValues ...any) {
	l.t.Helper()
	l.t.Logf("INFO %s%s", msg, formatKVs(keysAndValues))
}

func (l *failTestLogger) Warn(msg string, keysAndValues ...any) {
	l.t.Helper()
	l.t.Logf("WARN %s%s", msg, formatKVs(keysAndValues))
}

func (l *failTestLogger) Error(msg string, keysAndValues ...any) {
	l.t.Helper()
	l.t.Errorf("ERROR %s%s", msg, formatKVs(keysAndValues))
}

func formatKVs(keysAndValues []any) string {
	if len(keysAndValues) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		key := keysAndValues[i]
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, " %v=%v", key, keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, " %v=?", key)
		}
	}
	return b.String()
}

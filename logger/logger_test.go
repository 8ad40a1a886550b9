package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"WARNING", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{" info ", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"nonsense", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNewDoesNotPanic(t *testing.T) {
	log := New("debug")
	log.Debug("debug message", "key", "value")
	log.Info("info message", "count", 3)
	log.Warn("warn message")
	log.Error("error message", "error", assert.AnError)
}

func TestDiscard(t *testing.T) {
	log := Discard()
	// Must accept any call without output or panic.
	log.Debug("dropped", "key", "value")
	log.Info("dropped")
	log.Warn("dropped", "odd-key-only")
	log.Error("dropped", "error", assert.AnError)
}

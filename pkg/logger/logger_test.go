package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New("debug", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)
}

func TestSanitizeLogMessage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"username=alice&password=hunter2", "username=alice&password=[REDACTED]"},
		{"session: eyJhbGciOi", "session=[REDACTED]"},
		{"secret=abc other", "secret=[REDACTED] other"},
		{"folder not found", "folder not found"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeLogMessage(tt.in))
	}
}

package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(buf *bytes.Buffer, levels ...slog.Level) *slog.Logger {
	base := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewConditionalSourceHandler(base, levels...))
}

func TestConditionalSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		levels     []slog.Level
		wantSource bool
	}{
		{"info without source", slog.LevelInfo, []slog.Level{slog.LevelWarn, slog.LevelError}, false},
		{"warn with source", slog.LevelWarn, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"error with source", slog.LevelError, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"debug mode shows info source", slog.LevelInfo, []slog.Level{slog.LevelDebug, slog.LevelInfo}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newTestLogger(&buf, tt.levels...).Log(context.Background(), tt.level, "quota checked")

			out := buf.String()
			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), out)
			if tt.wantSource {
				assert.Contains(t, out, "conditional_source_handler_test.go")
			}
		})
	}
}

func TestConditionalSourceHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, slog.LevelError).With("account_id", "acc_1").WithGroup("request")
	log.Info("generated", "kind", "quiz")

	out := buf.String()
	assert.NotContains(t, out, "source=")
	assert.Contains(t, out, "account_id=acc_1")
	assert.Contains(t, out, "request.kind=quiz")
}

func TestConditionalSourceHandler_EnabledDelegates(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := NewConditionalSourceHandler(base, slog.LevelError)

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("anything"))
}

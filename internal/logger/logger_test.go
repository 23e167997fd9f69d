package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestSetLevel(t *testing.T) {
	Init()
	SetLevel("error")
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelWarn))

	SetLevel("")
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelError))

	SetLevel("debug")
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}

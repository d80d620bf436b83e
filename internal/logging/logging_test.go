package logging

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	got := LogFilePath("logs", start)
	assert.Equal(t, filepath.Join("logs", "lander.20260314_150926.log"), got)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	mh := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		nil, // nil handlers are filtered out
		slog.NewTextHandler(&b, nil),
	)
	logger := slog.New(mh)

	logger.Info("touchdown", "fuel", 120)

	assert.Contains(t, a.String(), "touchdown")
	assert.Contains(t, a.String(), "fuel=120")
	assert.Contains(t, b.String(), "touchdown")
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var quiet, chatty bytes.Buffer
	mh := NewMultiHandler(
		slog.NewTextHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&chatty, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(mh)

	logger.Debug("tick")

	assert.Empty(t, quiet.String())
	assert.Contains(t, chatty.String(), "tick")
}

func TestContextHandlerInjectsAttrs(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, nil)
	h := NewContextHandler(inner, func() []slog.Attr {
		return []slog.Attr{slog.Int("tick", 42), slog.String("phase", "descend")}
	})

	logger := slog.New(h)
	logger.Info("phase transition")

	out := buf.String()
	assert.Contains(t, out, "tick=42")
	assert.Contains(t, out, "phase=descend")
}

func TestContextHandlerNilProvider(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), nil)
	require.NoError(t, h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "ok", 0)))
	assert.Contains(t, buf.String(), "ok")
}

func TestSlogManagerSetup(t *testing.T) {
	m := NewSlogManager()
	assert.NotNil(t, m.Logger(), "falls back to default before Setup")

	var file bytes.Buffer
	m.Setup(&file, "debug", nil)
	logger := m.Logger()
	require.NotNil(t, logger)

	logger.Debug("guidance ready")
	assert.Contains(t, file.String(), "guidance ready")

	require.NoError(t, m.Flush(context.Background()), "flush without provider is a no-op")
}

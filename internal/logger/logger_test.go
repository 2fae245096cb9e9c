package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for raw, want := range cases {
		require.Equal(t, want, parseLevel(raw), "level %q", raw)
	}
}

func TestNewWithWriterFiltersAndTags(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", "build")

	log.Info("hidden")
	require.Empty(t, buf.String())

	log.Warn("shown", "count", 3)
	out := buf.String()
	require.Contains(t, out, "msg=shown")
	require.Contains(t, out, "component=build")
	require.Contains(t, out, "count=3")
}

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New constructs a text logger on stderr with the level taken from LOG_LEVEL.
// Stdout is left to command output.
func New(component string) *slog.Logger {
	return NewWithWriter(os.Stderr, os.Getenv("LOG_LEVEL"), component)
}

// NewWithWriter constructs a text logger writing to w at the named level.
func NewWithWriter(w io.Writer, level, component string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(h).With("component", component)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

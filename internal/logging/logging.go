package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// New creates a console slog.Logger with provided level string.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter renders records through a charm log handler onto w.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           levelFromString(level),
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return slog.New(handler)
}

func levelFromString(value string) charmlog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return charmlog.ErrorLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "info", "":
		return charmlog.InfoLevel
	default:
		return charmlog.DebugLevel
	}
}

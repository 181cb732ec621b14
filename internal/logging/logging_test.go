package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")

	logger.Info("hidden message")
	logger.Warn("semantic scoring failed", "kind", "transport")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Fatalf("info record leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "semantic scoring failed") || !strings.Contains(out, "transport") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter(&buf, "").Debug("debug off by default")
	if buf.Len() != 0 {
		t.Fatalf("default level should be info, got %q", buf.String())
	}

	NewWithWriter(&buf, "DEBUG").Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("debug record missing: %q", buf.String())
	}
}

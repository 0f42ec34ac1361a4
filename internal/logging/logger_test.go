package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestConsoleLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return slog.New(newConsoleHandler(buf, lvl))
}

func TestConsoleHandlerFormatsComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestConsoleLogger(&buf, slog.LevelInfo), "dispatch")

	logger.Info("entry processed", String(FieldEntry, "a.txt"), Int("exit_code", 0))

	line := buf.String()
	if !strings.Contains(line, " INFO dispatch: entry processed") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "entry=a.txt") {
		t.Fatalf("missing entry attr: %q", line)
	}
	if !strings.Contains(line, "exit_code=0") {
		t.Fatalf("missing exit_code attr: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	logger.Warn("manifest missing", String("path", "/tmp/my venv/requirements.txt"))

	if !strings.Contains(buf.String(), `path="/tmp/my venv/requirements.txt"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelWarn)

	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Fatalf("info line leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	logger.Info("report", slog.Group("totals", Int("processed", 3), Int("failed", 1)))

	out := buf.String()
	if !strings.Contains(out, "totals.processed=3") || !strings.Contains(out, "totals.failed=1") {
		t.Fatalf("group attrs not flattened: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled at every level.
	logger.Error("dropped", Error(nil))
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"waypoint/internal/services"
)

func TestWithContextLiftsAnnotations(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	ctx := services.WithRunID(context.Background(), "run-42")
	ctx = services.WithStep(ctx, "dispatch")
	ctx = services.WithEntry(ctx, "a.txt")

	WithContext(ctx, logger).Info("entry processed")

	out := buf.String()
	for _, want := range []string{"run_id=run-42", "step=dispatch", "entry=a.txt"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in line %q", want, out)
		}
	}
}

func TestWithContextWithoutAnnotations(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestConsoleLogger(&buf, slog.LevelInfo)

	WithContext(context.Background(), logger).Info("plain message")

	if strings.Contains(buf.String(), "=") {
		t.Fatalf("expected no attrs on unannotated context: %q", buf.String())
	}
}

func TestContextFieldsNilContext(t *testing.T) {
	if fields := ContextFields(nil); fields != nil {
		t.Fatalf("nil context should yield no fields: %v", fields)
	}
}

func TestWithContextNilLogger(t *testing.T) {
	logger := WithContext(context.Background(), nil)
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nil logger should fall back to the nop logger")
	}
}

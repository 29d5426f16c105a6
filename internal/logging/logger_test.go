package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestHandler(buf *bytes.Buffer, level slog.Level) slog.Handler {
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)
	return newConsoleHandler(buf, levelVar)
}

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTestHandler(&buf, slog.LevelInfo))
	logger = logger.With(String(FieldComponent, "pipeline"))

	logger.Info("cache hit", String("key", "inception 2010_en"), Int("size", 42))

	line := buf.String()
	if !strings.Contains(line, "INFO pipeline: cache hit") {
		t.Fatalf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, `key="inception 2010_en"`) {
		t.Fatalf("expected quoted key attr, got %q", line)
	}
	if !strings.Contains(line, "size=42") {
		t.Fatalf("expected size attr, got %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTestHandler(&buf, slog.LevelWarn))

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "WARN shown") {
		t.Fatalf("warn line missing, got %q", out)
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTestHandler(&buf, slog.LevelInfo))

	logger.Info("fetch", slog.Group("provider", String("name", "opensubtitles"), Int("attempt", 1)))

	line := buf.String()
	if !strings.Contains(line, "provider.name=opensubtitles") {
		t.Fatalf("expected flattened group key, got %q", line)
	}
	if !strings.Contains(line, "provider.attempt=1") {
		t.Fatalf("expected flattened group key, got %q", line)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNoopHandlerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop logger should report disabled")
	}
}

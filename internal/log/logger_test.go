package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentApp, Output: &buf})

	logger.WithComponent(ComponentSync).Info("cache replaced", FieldRemoteSize, 500)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if record[FieldComponent] != ComponentSync {
		t.Errorf("expected component %q, got %v", ComponentSync, record[FieldComponent])
	}
	if record[FieldRemoteSize] != float64(500) {
		t.Errorf("expected remote_size 500, got %v", record[FieldRemoteSize])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &buf, Component: ComponentStore})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=store") {
		t.Errorf("expected warn record with component, got %q", out)
	}
}

func TestLogFields(t *testing.T) {
	fields := NewFields().
		WithComponent(ComponentAggregate).
		WithOperation(OpAggregate).
		WithCell("guerres", 5, 4.0, 3).
		WithError(errors.New("boom")).
		WithError(nil)

	if fields[FieldError] != "boom" {
		t.Errorf("nil error must not overwrite the previous one, got %v", fields[FieldError])
	}
	if fields[FieldMonth] != 5 || fields[FieldEventCount] != 3 {
		t.Errorf("unexpected cell fields: %v", fields)
	}
	if got := len(fields.ToSlice()); got != len(fields)*2 {
		t.Errorf("expected %d slice entries, got %d", len(fields)*2, got)
	}
}

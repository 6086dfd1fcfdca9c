package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestNewLoggerJSONAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Service:       ServiceInfo{Name: "sunset", Version: "v1"},
		Environment:   EnvProd,
		Level:         slog.LevelInfo,
		DefaultModule: Module("dispatch"),
		Writer:        &buf,
	})

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "cycle completed", slog.Int("notified", 2))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}

	expected := map[string]any{
		"msg":      "cycle completed",
		"service":  "sunset",
		"version":  "v1",
		"env":      "prod",
		"module":   "dispatch",
		"trace_id": "0102030405060708090a0b0c0d0e0f10",
		"span_id":  "0102030405060708",
		"notified": float64(2),
	}
	for key, want := range expected {
		if entry[key] != want {
			t.Errorf("expected %s=%v, got %v", key, want, entry[key])
		}
	}
}

func TestNewLoggerModuleOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Environment:   EnvDev,
		Level:         slog.LevelDebug,
		DefaultModule: Module("default"),
		Writer:        &buf,
	}).With(slog.String("component", "x"))

	logger.DebugContext(WithModule(context.Background(), Module("scheduler")), "tick")

	line := buf.String()
	if !strings.Contains(line, "module=scheduler") {
		t.Errorf("expected module override in %q", line)
	}
	if !strings.Contains(line, "component=x") {
		t.Errorf("expected component attribute in %q", line)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Environment: EnvProd, Level: slog.LevelWarn, Writer: &buf})

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", buf.String())
	}
}

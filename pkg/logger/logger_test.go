package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestNewLogger_EnrichesRecords(t *testing.T) {
	var buf bytes.Buffer
	defaultLogger = newLogger(Options{Level: "debug", Format: "json", Service: "bws-gateway", Output: &buf})
	t.Cleanup(func() { defaultLogger = nil })

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	InfoContext(ctx, "downstream call returned", slog.String("operation", "PhotoVerify"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}

	for key, want := range map[string]any{
		"msg":           "downstream call returned",
		"operation":     "PhotoVerify",
		"service":       "bws-gateway",
		"trace_id":      "0102030405060708090a0b0c0d0e0f10",
		"span_id":       "0102030405060708",
		"trace_sampled": true,
	} {
		if record[key] != want {
			t.Errorf("%s = %v, want %v", key, record[key], want)
		}
	}
	if _, ok := record["timestamp"]; !ok {
		t.Error("expected timestamp key")
	}
	if _, ok := record["machine"]; !ok {
		t.Error("expected machine key")
	}
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	defaultLogger = newLogger(Options{Level: "warn", Format: "text", Output: &buf})
	t.Cleanup(func() { defaultLogger = nil })

	InfoContext(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}

	WarnContext(context.Background(), "kept")
	if !bytes.Contains(buf.Bytes(), []byte("msg=kept")) {
		t.Errorf("warn record missing: %q", buf.String())
	}
}

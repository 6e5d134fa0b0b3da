package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTraceIDFromContext(t *testing.T) {
	if got := TraceIDFromContext(context.Background()); got != nil {
		t.Fatalf("expected nil trace ID, got %v", got)
	}
	ctx := contextWithTraceID(context.Background(), "trace-abc")
	got := TraceIDFromContext(ctx)
	if got == nil || *got != "trace-abc" {
		t.Fatalf("expected trace-abc, got %v", got)
	}
}

func TestLogErrorAppendsErrorField(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)
	ctx := contextWithLogger(context.Background(), logger)

	err := errors.New("boom")
	LogError(ctx, "failed", err, zap.String("foo", "bar"))

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "failed" || entry.Level != zapcore.ErrorLevel {
		t.Fatalf("unexpected entry: %s %s", entry.Level, entry.Message)
	}

	fields := map[string]zap.Field{}
	for _, f := range entry.Context {
		fields[f.Key] = f
	}
	if f, ok := fields["foo"]; !ok || f.String != "bar" {
		t.Fatalf("expected foo field, got %+v", fields)
	}
	if f, ok := fields["error"]; !ok || f.Type != zapcore.ErrorType {
		t.Fatalf("expected error field, got %+v", fields)
	}
}

func TestLogErrorNilError(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)
	ctx := contextWithLogger(context.Background(), logger)

	LogError(ctx, "no error", nil, zap.String("key", "value"))

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	for _, f := range entries[0].Context {
		if f.Key == "error" {
			t.Fatal("did not expect error field when err is nil")
		}
	}
}

func TestLogInfoAndWarnWriteEntries(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	ctx := contextWithLogger(context.Background(), logger)

	LogInfo(ctx, "info message", zap.String("foo", "bar"))
	LogWarn(ctx, "warn message")

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].Message != "info message" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].Message != "warn message" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestLoggerFromContextFallsBack(t *testing.T) {
	var nilCtx context.Context //nolint:revive // testing nil context handling
	if LoggerFromContext(nilCtx) == nil {
		t.Fatal("expected non-nil logger for nil context")
	}

	ctx := context.WithValue(context.Background(), ctxLoggerKey{}, (*zap.Logger)(nil))
	if LoggerFromContext(ctx) == nil {
		t.Fatal("expected non-nil logger when context holds a nil logger")
	}
}

func TestContextWithTraceIDEmpty(t *testing.T) {
	original := context.Background()
	ctx := contextWithTraceID(original, "")
	if ctx != original {
		t.Fatal("expected same context for empty trace ID")
	}
}

func TestSugarFromContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	ctx := contextWithLogger(context.Background(), logger)

	SugarFromContext(ctx).Infow("test message", "key", "value")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Message != "test message" {
		t.Fatalf("unexpected message: %s", entries[0].Message)
	}
}

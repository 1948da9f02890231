package logging

import (
	"context"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID() on empty context = %q", got)
	}

	ctx = WithRequestID(ctx, "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}

	ctx = WithRoute(ctx, "/api")
	if got := GetRoute(ctx); got != "/api" {
		t.Errorf("GetRoute() = %q, want %q", got, "/api")
	}

	ctx = WithTraceID(ctx, "trace-abc")
	if got := GetTraceID(ctx); got != "trace-abc" {
		t.Errorf("GetTraceID() = %q, want %q", got, "trace-abc")
	}
}

func TestExtractContextFields(t *testing.T) {
	if fields := extractContextFields(context.Background()); len(fields) != 0 {
		t.Errorf("expected no fields, got %v", fields)
	}

	ctx := WithRequestID(context.Background(), "req-1")
	fields := extractContextFields(ctx)
	if len(fields) != 1 || fields[0].Key != "request_id" || fields[0].Value.String() != "req-1" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

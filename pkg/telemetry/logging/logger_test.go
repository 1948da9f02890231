package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid JSON config",
			config:  Config{Level: "info", Format: "json"},
			wantErr: false,
		},
		{
			name:    "valid text config",
			config:  Config{Level: "debug", Format: "text"},
			wantErr: false,
		},
		{
			name:    "upper case values",
			config:  Config{Level: "WARN", Format: "TEXT"},
			wantErr: false,
		},
		{
			name:    "empty values use defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			config:  Config{Level: "invalid", Format: "json"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  Config{Level: "info", Format: "console"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if logger != nil {
				if err := logger.Close(); err != nil {
					t.Errorf("Close() error = %v", err)
				}
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logMethod func(*Logger, string)
		wantLog   bool
	}{
		{"debug level logs debug", "debug", func(l *Logger, msg string) { l.Debug(msg) }, true},
		{"info level filters debug", "info", func(l *Logger, msg string) { l.Debug(msg) }, false},
		{"info level logs info", "info", func(l *Logger, msg string) { l.Info(msg) }, true},
		{"warn level filters info", "warn", func(l *Logger, msg string) { l.Info(msg) }, false},
		{"warn level logs warn", "warn", func(l *Logger, msg string) { l.Warn(msg) }, true},
		{"error level filters warn", "error", func(l *Logger, msg string) { l.Warn(msg) }, false},
		{"error level logs error", "error", func(l *Logger, msg string) { l.Error(msg) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger, err := New(Config{Level: tt.logLevel, Format: "json", Writer: buf})
			if err != nil {
				t.Fatalf("Failed to create logger: %v", err)
			}

			testMsg := "test message"
			tt.logMethod(logger, testMsg)

			if hasLog := strings.Contains(buf.String(), testMsg); hasLog != tt.wantLog {
				t.Errorf("Log filtering failed: got log=%v, want log=%v, output=%s",
					hasLog, tt.wantLog, buf.String())
			}
		})
	}
}

func TestLogger_StructuredFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.With("component", "proxy").Info("request forwarded",
		"route", "/api",
		"status", 200,
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "request forwarded" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["component"] != "proxy" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v", entry["status"])
	}
}

func TestLogger_ContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "debug", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-789")
	ctx = WithRoute(ctx, "/api")
	ctx = WithTraceID(ctx, "trace-abc")

	logger.InfoContext(ctx, "info message")
	for _, want := range []string{`"request_id":"req-789"`, `"route":"/api"`, `"trace_id":"trace-abc"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %s in output: %s", want, buf.String())
		}
	}

	buf.Reset()
	logger.With("component", "server").ErrorContext(ctx, "error message")
	if !strings.Contains(buf.String(), "req-789") {
		t.Errorf("derived logger lost context fields: %s", buf.String())
	}
}

func TestLogger_TextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "text", Writer: buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("server stopped", "reason", "signal")
	out := buf.String()
	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, `msg="server stopped"`) {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestInit(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(previous)
		initMu.Lock()
		initLogger = nil
		initMu.Unlock()
	})

	if _, err := Init(Config{Level: "bogus"}); err == nil {
		t.Fatal("expected error for invalid level")
	}

	buf := &bytes.Buffer{}
	first, err := Init(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	second, err := Init(Config{Level: "debug", Format: "text", Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if first != second {
		t.Error("second Init() should return the first logger")
	}

	Component("certs").Info("installed")
	if !strings.Contains(buf.String(), `"component":"certs"`) {
		t.Errorf("default logger not installed: %s", buf.String())
	}
}

// syncBuffer counts Sync calls.
type syncBuffer struct {
	bytes.Buffer
	syncs int
}

func (b *syncBuffer) Sync() error {
	b.syncs++
	return nil
}

func TestLogger_CloseSyncsWriter(t *testing.T) {
	out := &syncBuffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: out})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("flushed")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if out.syncs != 1 {
		t.Errorf("Sync called %d times, want 1", out.syncs)
	}
	if !strings.Contains(out.String(), "flushed") {
		t.Errorf("entry not written: %s", out.String())
	}
}

package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestContextRequestLogger(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := ContextWithRequestLogger(context.Background(), l)

	if got := ContextRequestLogger(ctx); got != l {
		t.Error("stored logger not returned")
	}

	// Without a stored logger the default is returned, never nil.
	if got := ContextRequestLogger(context.Background()); got == nil {
		t.Error("missing logger must fall back to the default")
	}
}

func TestContextLogAttrs(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := ContextWithRequestLogger(context.Background(), l)

	ContextWithLogAttrs(ctx, slog.String("serial", "serial-1"))
	ContextWithLogAttrs(ctx, slog.Int64("version", 1000))

	attrs := ContextLogAttrs(ctx)
	if len(attrs) != 2 {
		t.Fatalf("got %d attrs, want 2", len(attrs))
	}
	if attrs[0].Key != "serial" || attrs[1].Key != "version" {
		t.Errorf("attrs = %v", attrs)
	}

	// A context without a collector silently drops attributes.
	ContextWithLogAttrs(context.Background(), slog.String("ignored", "x"))
	if got := ContextLogAttrs(context.Background()); got != nil {
		t.Errorf("attrs on bare context = %v, want nil", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

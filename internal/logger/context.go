package logger

// context.go stores a request-scoped logger in the request context so
// handlers and middleware share the request id and other per-request
// attributes.

import (
	"context"
	"log/slog"
	"sync"
)

type contextKey int

const (
	loggerKey contextKey = iota
	attrsKey
)

// logAttrs collects attributes added during request handling; they are
// appended to the final request log line written by the logging middleware.
type logAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// ContextWithRequestLogger returns a context carrying the given logger and
// an empty attribute collector.
func ContextWithRequestLogger(ctx context.Context, l *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, loggerKey, l)
	return context.WithValue(ctx, attrsKey, &logAttrs{})
}

// ContextRequestLogger returns the request logger stored in ctx, or the
// default logger when none is present (e.g. in tests).
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// ContextWithLogAttrs adds attributes that the logging middleware includes
// in the final request log line. Safe for concurrent use.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	if a, ok := ctx.Value(attrsKey).(*logAttrs); ok {
		a.mu.Lock()
		a.attrs = append(a.attrs, attrs...)
		a.mu.Unlock()
	}
}

// ContextLogAttrs returns the attributes accumulated for this request.
func ContextLogAttrs(ctx context.Context) []slog.Attr {
	if a, ok := ctx.Value(attrsKey).(*logAttrs); ok {
		a.mu.Lock()
		defer a.mu.Unlock()
		out := make([]slog.Attr, len(a.attrs))
		copy(out, a.attrs)
		return out
	}
	return nil
}

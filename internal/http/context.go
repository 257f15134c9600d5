package http

import (
	"context"
	"log/slog"

	"github.com/example/academic-timetable/internal/logging"
)

type contextKey string

const (
	requestIDContextKey contextKey = "request_id"
	entryIDContextKey   contextKey = "schedule_entry_id"
)

// ContextWithLogger attaches the request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithRequestID stores the id assigned by RequestLogger.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

// RequestIDFromContext extracts the request id if one was assigned.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}

// ContextWithScheduleEntryID injects the raw schedule entry id resolved from the request path.
func ContextWithScheduleEntryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, entryIDContextKey, id)
}

// ScheduleEntryIDFromContext extracts a schedule entry id previously associated with the context.
func ScheduleEntryIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(entryIDContextKey).(string)
	return id, ok
}

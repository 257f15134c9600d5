package http

import (
	"context"
	"log/slog"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// handlerLogger scopes the request logger to one handler operation. The
// request logger already carries request_id, method and path; the schedule
// entry id from the route is added when present.
func handlerLogger(ctx context.Context, fallback *slog.Logger, component, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = defaultLogger(fallback)
	}

	logger = logger.With("handler", component, "operation", operation)
	if raw, ok := ScheduleEntryIDFromContext(ctx); ok {
		logger = logger.With("schedule_entry_id", raw)
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	return logger
}

package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/academic-timetable/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// serviceLogger prefers the request scoped logger carried by ctx so service
// logs share the request_id of the HTTP request that triggered them.
func serviceLogger(ctx context.Context, base *slog.Logger, service, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = defaultLogger(base)
	}
	return logger.With(append([]any{"service", service, "operation", operation}, attrs...)...)
}

// ErrorKind maps sentinel, rejection and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var rErr *RejectionError
	if errors.As(err, &rErr) && rErr.Rejection != nil {
		return string(rErr.Kind())
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrReferenceMissing):
		return "reference_missing"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}

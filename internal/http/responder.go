package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/academic-timetable/internal/application"
	"github.com/example/academic-timetable/internal/scheduler"
)

var (
	errBadRequestBody      = errors.New("Invalid request body.")
	errInvalidScheduleID   = errors.New("Invalid schedule entry id.")
	errScheduleEntryAbsent = errors.New("Schedule entry not found.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).InfoContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{ErrorCode: statusCode(status), Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var rErr *application.RejectionError
	if errors.As(err, &rErr) && rErr.Rejection != nil {
		r.writeJSON(ctx, w, rejectionStatus(rErr.Kind()), errorResponse{
			ErrorCode:          rejectionCode(rErr.Kind()),
			Message:            rErr.Rejection.Message,
			Rule:               string(rErr.Rejection.Rule),
			ConflictingEntryID: rErr.Rejection.ConflictingEntryID,
		})
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{ErrorCode: "NOT_FOUND", Message: "The requested resource was not found."})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{ErrorCode: "ALREADY_EXISTS", Message: "A record with the same unique value already exists."})
	case errors.Is(err, application.ErrReferenceMissing):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{ErrorCode: "REFERENCE_MISSING", Message: "A referenced record does not exist."})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				ErrorCode: "VALIDATION_FAILED",
				Message:   "The request contains invalid fields.",
				Errors:    vErr.FieldErrors,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{ErrorCode: "INTERNAL", Message: "An internal server error occurred."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func rejectionStatus(kind scheduler.RejectionKind) int {
	if kind == scheduler.KindNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func rejectionCode(kind scheduler.RejectionKind) string {
	switch kind {
	case scheduler.KindConflict:
		return "SCHEDULE_CONFLICT"
	case scheduler.KindNotFound:
		return "NOT_FOUND"
	}
	return "VALIDATION_FAILED"
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "The request is invalid."
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusConflict:
		return "The request conflicts with the current state of the resource."
	case http.StatusUnprocessableEntity:
		return "The request contains invalid fields."
	case http.StatusServiceUnavailable:
		return "The service is unavailable."
	default:
		return "An internal server error occurred."
	}
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "ALREADY_EXISTS"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_FAILED"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}

type errorResponse struct {
	ErrorCode          string            `json:"error_code,omitempty"`
	Message            string            `json:"message"`
	Errors             map[string]string `json:"errors,omitempty"`
	Rule               string            `json:"rule,omitempty"`
	ConflictingEntryID int64             `json:"conflicting_entry_id,omitempty"`
}

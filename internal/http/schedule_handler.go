package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/academic-timetable/internal/application"
)

type scheduleService interface {
	CreateScheduleEntry(ctx context.Context, input application.ScheduleEntryInput) (application.ScheduleEntry, error)
	GetScheduleEntry(ctx context.Context, id int64) (application.ScheduleEntry, error)
	ListScheduleEntries(ctx context.Context) ([]application.ScheduleEntry, error)
	ListScheduleEntriesByGroup(ctx context.Context, groupName string) ([]application.ScheduleEntry, error)
	DeleteScheduleEntry(ctx context.Context, id int64) (bool, error)
}

type ScheduleHandler struct {
	service   scheduleService
	responder responder
	logger    *slog.Logger
}

func NewScheduleHandler(service scheduleService, logger *slog.Logger) *ScheduleHandler {
	base := defaultLogger(logger)
	return &ScheduleHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ScheduleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ScheduleHandler", operation, attrs...)
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req scheduleEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").InfoContext(r.Context(), "failed to decode schedule entry", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	entry, err := h.service.CreateScheduleEntry(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toScheduleEntryDTO(entry))
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var (
		entries []application.ScheduleEntry
		err     error
	)
	if group := strings.TrimSpace(r.URL.Query().Get("group_name")); group != "" {
		entries, err = h.service.ListScheduleEntriesByGroup(r.Context(), group)
	} else {
		entries, err = h.service.ListScheduleEntries(r.Context())
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "List", "result_count", len(entries)).DebugContext(r.Context(), "schedule entries listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toScheduleEntryDTOs(entries))
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := h.entryID(w, r, "Get")
	if !ok {
		return
	}

	entry, err := h.service.GetScheduleEntry(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toScheduleEntryDTO(entry))
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := h.entryID(w, r, "Delete")
	if !ok {
		return
	}

	deleted, err := h.service.DeleteScheduleEntry(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !deleted {
		h.responder.writeError(r.Context(), w, http.StatusNotFound, errScheduleEntryAbsent)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ScheduleHandler) entryID(w http.ResponseWriter, r *http.Request, operation string) (int64, bool) {
	raw, _ := ScheduleEntryIDFromContext(r.Context())
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		h.log(r.Context(), operation, "error_kind", "bad_request").InfoContext(r.Context(), "invalid schedule entry id", "raw_id", raw)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidScheduleID)
		return 0, false
	}
	return id, true
}

type scheduleEntryRequest struct {
	DayOfWeek      string `json:"day_of_week"`
	StartHour      *int   `json:"start_hour"`
	EndHour        *int   `json:"end_hour"`
	SubjectID      *int64 `json:"subject_id"`
	RoomID         *int64 `json:"room_id"`
	TeacherID      *int64 `json:"teacher_id"`
	ClassType      string `json:"class_type"`
	StudentGroupID *int64 `json:"student_group_id"`
}

func (r scheduleEntryRequest) toInput() application.ScheduleEntryInput {
	return application.ScheduleEntryInput{
		DayOfWeek:      strings.TrimSpace(r.DayOfWeek),
		StartHour:      r.StartHour,
		EndHour:        r.EndHour,
		SubjectID:      r.SubjectID,
		RoomID:         r.RoomID,
		TeacherID:      r.TeacherID,
		ClassType:      strings.TrimSpace(r.ClassType),
		StudentGroupID: r.StudentGroupID,
	}
}

type scheduleEntryDTO struct {
	ID             int64  `json:"id"`
	DayOfWeek      string `json:"day_of_week"`
	StartHour      int    `json:"start_hour"`
	EndHour        int    `json:"end_hour"`
	SubjectID      int64  `json:"subject_id"`
	RoomID         int64  `json:"room_id"`
	TeacherID      int64  `json:"teacher_id"`
	ClassType      string `json:"class_type"`
	StudentGroupID *int64 `json:"student_group_id"`
}

func toScheduleEntryDTO(entry application.ScheduleEntry) scheduleEntryDTO {
	return scheduleEntryDTO{
		ID:             entry.ID,
		DayOfWeek:      entry.DayOfWeek,
		StartHour:      entry.StartHour,
		EndHour:        entry.EndHour,
		SubjectID:      entry.SubjectID,
		RoomID:         entry.RoomID,
		TeacherID:      entry.TeacherID,
		ClassType:      entry.ClassType,
		StudentGroupID: entry.StudentGroupID,
	}
}

func toScheduleEntryDTOs(entries []application.ScheduleEntry) []scheduleEntryDTO {
	return mapDTOs(entries, toScheduleEntryDTO)
}

// mapDTOs always returns a non-nil slice so empty lists encode as [].
func mapDTOs[M any, D any](models []M, convert func(M) D) []D {
	out := make([]D, 0, len(models))
	for _, model := range models {
		out = append(out, convert(model))
	}
	return out
}

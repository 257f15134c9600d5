package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/academic-timetable/internal/application"
)

type catalogService interface {
	CreateTeacher(ctx context.Context, input application.TeacherInput) (application.Teacher, error)
	ListTeachers(ctx context.Context) ([]application.Teacher, error)
	CreateRoom(ctx context.Context, input application.RoomInput) (application.Room, error)
	ListRooms(ctx context.Context) ([]application.Room, error)
	CreateStudentYear(ctx context.Context, input application.StudentYearInput) (application.StudentYear, error)
	ListStudentYears(ctx context.Context) ([]application.StudentYear, error)
	CreateStudentGroup(ctx context.Context, input application.StudentGroupInput) (application.StudentGroup, error)
	ListStudentGroups(ctx context.Context) ([]application.StudentGroup, error)
	CreateSubject(ctx context.Context, input application.SubjectInput) (application.Subject, error)
	ListSubjects(ctx context.Context) ([]application.Subject, error)
}

// CatalogHandler serves the teacher, room, year, group and subject collections.
type CatalogHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	base := defaultLogger(logger)
	return &CatalogHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CatalogHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CatalogHandler", operation, attrs...)
}

// create decodes the body into In, runs the service call and renders the DTO.
func create[In any, Out any, DTO any](h *CatalogHandler, w http.ResponseWriter, r *http.Request, operation string, call func(catalogService, context.Context, In) (Out, error), render func(Out) DTO) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var input In
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").InfoContext(r.Context(), "failed to decode request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	out, err := call(h.service, r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, render(out))
}

func list[Out any, DTO any](h *CatalogHandler, w http.ResponseWriter, r *http.Request, call func(catalogService, context.Context) ([]Out, error), render func(Out) DTO) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	items, err := call(h.service, r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, mapDTOs(items, render))
}

func (h *CatalogHandler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, "CreateTeacher", catalogService.CreateTeacher, toTeacherDTO)
}

func (h *CatalogHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, catalogService.ListTeachers, toTeacherDTO)
}

func (h *CatalogHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, "CreateRoom", catalogService.CreateRoom, toRoomDTO)
}

func (h *CatalogHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, catalogService.ListRooms, toRoomDTO)
}

func (h *CatalogHandler) CreateStudentYear(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, "CreateStudentYear", catalogService.CreateStudentYear, toStudentYearDTO)
}

func (h *CatalogHandler) ListStudentYears(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, catalogService.ListStudentYears, toStudentYearDTO)
}

func (h *CatalogHandler) CreateStudentGroup(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, "CreateStudentGroup", catalogService.CreateStudentGroup, toStudentGroupDTO)
}

func (h *CatalogHandler) ListStudentGroups(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, catalogService.ListStudentGroups, toStudentGroupDTO)
}

func (h *CatalogHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, "CreateSubject", catalogService.CreateSubject, toSubjectDTO)
}

func (h *CatalogHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, catalogService.ListSubjects, toSubjectDTO)
}

type teacherDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toTeacherDTO(t application.Teacher) teacherDTO {
	return teacherDTO{ID: t.ID, Name: t.Name}
}

type roomDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	IsCourseRoom bool   `json:"is_course_room"`
}

func toRoomDTO(room application.Room) roomDTO {
	return roomDTO{ID: room.ID, Name: room.Name, IsCourseRoom: room.IsCourseRoom}
}

type studentYearDTO struct {
	ID   int64 `json:"id"`
	Year int   `json:"year"`
}

func toStudentYearDTO(y application.StudentYear) studentYearDTO {
	return studentYearDTO{ID: y.ID, Year: y.Year}
}

type studentGroupDTO struct {
	ID            int64  `json:"id"`
	StudentYearID int64  `json:"student_year_id"`
	Letter        string `json:"letter"`
	Year          int    `json:"year"`
	Name          string `json:"name"`
}

func toStudentGroupDTO(g application.StudentGroup) studentGroupDTO {
	return studentGroupDTO{ID: g.ID, StudentYearID: g.StudentYearID, Letter: g.Letter, Year: g.Year, Name: g.Name()}
}

type subjectDTO struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	CourseTeacherID      int64   `json:"course_teacher_id"`
	StudentYearID        int64   `json:"student_year_id"`
	SeminarLabTeacherIDs []int64 `json:"seminar_lab_teacher_ids"`
}

func toSubjectDTO(s application.Subject) subjectDTO {
	ids := s.SeminarLabTeacherIDs
	if ids == nil {
		ids = []int64{}
	}
	return subjectDTO{
		ID:                   s.ID,
		Name:                 s.Name,
		CourseTeacherID:      s.CourseTeacherID,
		StudentYearID:        s.StudentYearID,
		SeminarLabTeacherIDs: ids,
	}
}

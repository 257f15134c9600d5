package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/academic-timetable/internal/persistence"
)

// CatalogRepository captures the persistence operations needed by the catalog.
type CatalogRepository interface {
	persistence.TeacherRepository
	persistence.RoomRepository
	persistence.StudentYearRepository
	persistence.StudentGroupRepository
	persistence.SubjectRepository
}

// CatalogService validates and stores the reference data schedule entries point at.
type CatalogService struct {
	store          CatalogRepository
	validate       *validator.Validate
	maxStudentYear int
	logger         *slog.Logger
}

// NewCatalogService constructs a catalog service. maxStudentYear bounds the
// years that may be created.
func NewCatalogService(store CatalogRepository, maxStudentYear int, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:          store,
		validate:       newInputValidator(),
		maxStudentYear: maxStudentYear,
		logger:         defaultLogger(logger),
	}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, attrs...)
}

// logOutcome logs a create result once the operation finishes.
func (s *CatalogService) logOutcome(ctx context.Context, logger *slog.Logger, what string, id int64, err error) {
	if err != nil {
		logger.ErrorContext(ctx, "failed to create "+what, "error", err, "error_kind", ErrorKind(err))
		return
	}
	logger.With(strings.ReplaceAll(what, " ", "_")+"_id", id).InfoContext(ctx, what+" created")
}

// CreateTeacher validates input and persists a new teacher.
func (s *CatalogService) CreateTeacher(ctx context.Context, input TeacherInput) (teacher Teacher, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	logger := s.loggerWith(ctx, "CreateTeacher")
	defer func() { s.logOutcome(ctx, logger, "teacher", teacher.ID, err) }()

	input.Name = strings.TrimSpace(input.Name)
	if vErr := validateInput(s.validate, input); vErr.HasErrors() {
		err = vErr
		return
	}

	var stored persistence.Teacher
	stored, err = s.store.CreateTeacher(ctx, persistence.Teacher{Name: input.Name})
	if err != nil {
		err = mapRepoError(err)
		return
	}
	teacher = toTeacher(stored)
	return
}

// ListTeachers returns every teacher ordered by id.
func (s *CatalogService) ListTeachers(ctx context.Context) ([]Teacher, error) {
	teachers, err := s.store.ListTeachers(ctx)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ListTeachers").ErrorContext(ctx, "failed to list teachers", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return convertAll(teachers, toTeacher), nil
}

// CreateRoom validates input and persists a new room.
func (s *CatalogService) CreateRoom(ctx context.Context, input RoomInput) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	logger := s.loggerWith(ctx, "CreateRoom", "is_course_room", input.IsCourseRoom)
	defer func() { s.logOutcome(ctx, logger, "room", room.ID, err) }()

	input.Name = strings.TrimSpace(input.Name)
	if vErr := validateInput(s.validate, input); vErr.HasErrors() {
		err = vErr
		return
	}

	var stored persistence.Room
	stored, err = s.store.CreateRoom(ctx, persistence.Room{Name: input.Name, IsCourseRoom: input.IsCourseRoom})
	if err != nil {
		err = mapRepoError(err)
		return
	}
	room = toRoom(stored)
	return
}

// ListRooms returns every room ordered by id.
func (s *CatalogService) ListRooms(ctx context.Context) ([]Room, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ListRooms").ErrorContext(ctx, "failed to list rooms", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return convertAll(rooms, toRoom), nil
}

// CreateStudentYear validates input against the configured range and persists a new year.
func (s *CatalogService) CreateStudentYear(ctx context.Context, input StudentYearInput) (year StudentYear, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	logger := s.loggerWith(ctx, "CreateStudentYear", "year", input.Year)
	defer func() { s.logOutcome(ctx, logger, "student year", year.ID, err) }()

	vErr := validateInput(s.validate, input)
	if s.maxStudentYear > 0 && input.Year > s.maxStudentYear {
		bound := &ValidationError{}
		bound.add("year", fmt.Sprintf("must be at most %d", s.maxStudentYear))
		vErr.merge(bound)
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var stored persistence.StudentYear
	stored, err = s.store.CreateStudentYear(ctx, persistence.StudentYear{Year: input.Year})
	if err != nil {
		err = mapRepoError(err)
		return
	}
	year = toStudentYear(stored)
	return
}

// ListStudentYears returns every student year ordered by year.
func (s *CatalogService) ListStudentYears(ctx context.Context) ([]StudentYear, error) {
	years, err := s.store.ListStudentYears(ctx)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ListStudentYears").ErrorContext(ctx, "failed to list student years", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return convertAll(years, toStudentYear), nil
}

// CreateStudentGroup validates the letter format and persists a new group.
func (s *CatalogService) CreateStudentGroup(ctx context.Context, input StudentGroupInput) (group StudentGroup, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	logger := s.loggerWith(ctx, "CreateStudentGroup", "student_year_id", input.StudentYearID)
	defer func() { s.logOutcome(ctx, logger, "student group", group.ID, err) }()

	input.Letter = strings.TrimSpace(input.Letter)
	if vErr := validateInput(s.validate, input); vErr.HasErrors() {
		err = vErr
		return
	}

	var stored persistence.StudentGroup
	stored, err = s.store.CreateStudentGroup(ctx, persistence.StudentGroup{
		StudentYearID: input.StudentYearID,
		Letter:        input.Letter,
	})
	if err != nil {
		err = mapRepoError(err)
		return
	}
	group = toStudentGroup(stored)
	return
}

// ListStudentGroups returns every group ordered by year then letter.
func (s *CatalogService) ListStudentGroups(ctx context.Context) ([]StudentGroup, error) {
	groups, err := s.store.ListStudentGroups(ctx)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ListStudentGroups").ErrorContext(ctx, "failed to list student groups", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return convertAll(groups, toStudentGroup), nil
}

// CreateSubject validates input and persists a subject with its seminar and
// laboratory teachers.
func (s *CatalogService) CreateSubject(ctx context.Context, input SubjectInput) (subject Subject, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	logger := s.loggerWith(ctx, "CreateSubject",
		"course_teacher_id", input.CourseTeacherID,
		"student_year_id", input.StudentYearID,
	)
	defer func() { s.logOutcome(ctx, logger, "subject", subject.ID, err) }()

	input.Name = strings.TrimSpace(input.Name)
	if vErr := validateInput(s.validate, input); vErr.HasErrors() {
		err = vErr
		return
	}

	var stored persistence.Subject
	stored, err = s.store.CreateSubject(ctx, persistence.Subject{
		Name:                 input.Name,
		CourseTeacherID:      input.CourseTeacherID,
		StudentYearID:        input.StudentYearID,
		SeminarLabTeacherIDs: append([]int64(nil), input.SeminarLabTeacherIDs...),
	})
	if err != nil {
		err = mapRepoError(err)
		return
	}
	subject = toSubject(stored)
	return
}

// ListSubjects returns every subject ordered by id.
func (s *CatalogService) ListSubjects(ctx context.Context) ([]Subject, error) {
	subjects, err := s.store.ListSubjects(ctx)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ListSubjects").ErrorContext(ctx, "failed to list subjects", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return convertAll(subjects, toSubject), nil
}

package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/example/academic-timetable/internal/persistence"
	"github.com/example/academic-timetable/internal/persistence/memory"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCatalog(t *testing.T) (*CatalogService, *memory.Storage) {
	t.Helper()
	store := memory.New()
	return NewCatalogService(store, 3, quietLogger()), store
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.FieldErrors[field]; !ok {
		t.Fatalf("expected field error for %q, got %#v", field, vErr.FieldErrors)
	}
}

func TestCatalogService_CreateTeacher(t *testing.T) {
	t.Parallel()

	t.Run("trims and stores the name", func(t *testing.T) {
		svc, _ := newCatalog(t)
		teacher, err := svc.CreateTeacher(context.Background(), TeacherInput{Name: "  Popescu Ion "})
		if err != nil {
			t.Fatalf("CreateTeacher returned error: %v", err)
		}
		if teacher.ID == 0 || teacher.Name != "Popescu Ion" {
			t.Fatalf("unexpected teacher %+v", teacher)
		}
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		svc, _ := newCatalog(t)
		_, err := svc.CreateTeacher(context.Background(), TeacherInput{Name: "   "})
		requireFieldError(t, err, "name")
	})

	t.Run("maps duplicates to ErrAlreadyExists", func(t *testing.T) {
		svc, _ := newCatalog(t)
		ctx := context.Background()
		if _, err := svc.CreateTeacher(ctx, TeacherInput{Name: "Ionescu Maria"}); err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		_, err := svc.CreateTeacher(ctx, TeacherInput{Name: "Ionescu Maria"})
		if !errors.Is(err, ErrAlreadyExists) || !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrAlreadyExists wrapping ErrDuplicate, got %v", err)
		}
	})
}

func TestCatalogService_CreateStudentYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		year    int
		wantErr bool
	}{
		{name: "first year", year: 1},
		{name: "last configured year", year: 3},
		{name: "zero", year: 0, wantErr: true},
		{name: "above configured maximum", year: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newCatalog(t)
			year, err := svc.CreateStudentYear(context.Background(), StudentYearInput{Year: tt.year})
			if tt.wantErr {
				requireFieldError(t, err, "year")
				return
			}
			if err != nil {
				t.Fatalf("CreateStudentYear returned error: %v", err)
			}
			if year.Year != tt.year {
				t.Fatalf("expected year %d, got %d", tt.year, year.Year)
			}
		})
	}
}

func TestCatalogService_CreateStudentGroup(t *testing.T) {
	t.Parallel()

	svc, _ := newCatalog(t)
	ctx := context.Background()
	year, err := svc.CreateStudentYear(ctx, StudentYearInput{Year: 2})
	if err != nil {
		t.Fatalf("CreateStudentYear returned error: %v", err)
	}

	group, err := svc.CreateStudentGroup(ctx, StudentGroupInput{StudentYearID: year.ID, Letter: "A1"})
	if err != nil {
		t.Fatalf("CreateStudentGroup returned error: %v", err)
	}
	if group.Year != 2 || group.Name() != "2A1" {
		t.Fatalf("unexpected group %+v (name %q)", group, group.Name())
	}

	for _, letter := range []string{"a1", "AA", "A12", ""} {
		_, err := svc.CreateStudentGroup(ctx, StudentGroupInput{StudentYearID: year.ID, Letter: letter})
		requireFieldError(t, err, "letter")
	}

	_, err = svc.CreateStudentGroup(ctx, StudentGroupInput{StudentYearID: year.ID + 100, Letter: "B1"})
	if !errors.Is(err, ErrReferenceMissing) {
		t.Fatalf("expected ErrReferenceMissing for unknown year, got %v", err)
	}
}

func TestCatalogService_CreateSubject(t *testing.T) {
	t.Parallel()

	svc, _ := newCatalog(t)
	ctx := context.Background()
	course, _ := svc.CreateTeacher(ctx, TeacherInput{Name: "Popescu Ion"})
	lab, _ := svc.CreateTeacher(ctx, TeacherInput{Name: "Georgescu Ana"})
	year, _ := svc.CreateStudentYear(ctx, StudentYearInput{Year: 1})

	subject, err := svc.CreateSubject(ctx, SubjectInput{
		Name:                 "Algorithms",
		CourseTeacherID:      course.ID,
		StudentYearID:        year.ID,
		SeminarLabTeacherIDs: []int64{lab.ID, lab.ID},
	})
	if err != nil {
		t.Fatalf("CreateSubject returned error: %v", err)
	}
	if len(subject.SeminarLabTeacherIDs) != 1 || subject.SeminarLabTeacherIDs[0] != lab.ID {
		t.Fatalf("expected deduplicated seminar teachers, got %v", subject.SeminarLabTeacherIDs)
	}

	_, err = svc.CreateSubject(ctx, SubjectInput{Name: "Networks", CourseTeacherID: course.ID, StudentYearID: year.ID, SeminarLabTeacherIDs: []int64{0}})
	requireFieldError(t, err, "seminar_lab_teacher_ids[0]")

	_, err = svc.CreateSubject(ctx, SubjectInput{Name: "Compilers", CourseTeacherID: 999, StudentYearID: year.ID})
	if !errors.Is(err, ErrReferenceMissing) {
		t.Fatalf("expected ErrReferenceMissing for unknown teacher, got %v", err)
	}

	subjects, err := svc.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("ListSubjects returned error: %v", err)
	}
	if len(subjects) != 1 || subjects[0].Name != "Algorithms" {
		t.Fatalf("unexpected subjects %+v", subjects)
	}
}

func TestCatalogService_Lists(t *testing.T) {
	t.Parallel()

	svc, _ := newCatalog(t)
	ctx := context.Background()

	rooms, err := svc.ListRooms(ctx)
	if err != nil || rooms != nil {
		t.Fatalf("expected nil rooms from empty catalog, got %v, %v", rooms, err)
	}

	if _, err := svc.CreateRoom(ctx, RoomInput{Name: "Lab 101"}); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	if _, err := svc.CreateRoom(ctx, RoomInput{Name: "A1", IsCourseRoom: true}); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	rooms, err = svc.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms returned error: %v", err)
	}
	if len(rooms) != 2 || rooms[0].Name != "Lab 101" || !rooms[1].IsCourseRoom {
		t.Fatalf("unexpected rooms %+v", rooms)
	}
}

package persistence_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/academic-timetable/internal/persistence"
	"github.com/example/academic-timetable/internal/persistence/memory"
	"github.com/example/academic-timetable/internal/testfixtures"
)

// stores returns a fresh instance of every Store implementation.
func stores(t *testing.T) map[string]persistence.Store {
	t.Helper()
	return map[string]persistence.Store{
		"memory": memory.New(),
		"sqlite": testfixtures.NewSQLiteStorage(t),
	}
}

func TestStoreContract_Catalog(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			teacher, err := store.CreateTeacher(ctx, persistence.Teacher{Name: "Georgescu Ana"})
			if err != nil {
				t.Fatalf("CreateTeacher failed: %v", err)
			}
			if teacher.ID == 0 {
				t.Fatal("expected id to be assigned")
			}
			if _, err := store.CreateTeacher(ctx, persistence.Teacher{Name: "Georgescu Ana"}); !errors.Is(err, persistence.ErrDuplicate) {
				t.Fatalf("expected ErrDuplicate, got %v", err)
			}

			year, err := store.CreateStudentYear(ctx, persistence.StudentYear{Year: 2})
			if err != nil {
				t.Fatalf("CreateStudentYear failed: %v", err)
			}
			group, err := store.CreateStudentGroup(ctx, persistence.StudentGroup{StudentYearID: year.ID, Letter: "B2"})
			if err != nil {
				t.Fatalf("CreateStudentGroup failed: %v", err)
			}
			if group.Year != 2 {
				t.Fatalf("expected group year 2, got %d", group.Year)
			}
			if _, err := store.CreateStudentGroup(ctx, persistence.StudentGroup{StudentYearID: year.ID + 100, Letter: "C3"}); !errors.Is(err, persistence.ErrForeignKeyViolation) {
				t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
			}
			if _, err := store.CreateStudentGroup(ctx, persistence.StudentGroup{StudentYearID: year.ID, Letter: "BB"}); !errors.Is(err, persistence.ErrConstraintViolation) {
				t.Fatalf("expected ErrConstraintViolation, got %v", err)
			}

			subject, err := store.CreateSubject(ctx, persistence.Subject{
				Name:                 "Databases",
				CourseTeacherID:      teacher.ID,
				StudentYearID:        year.ID,
				SeminarLabTeacherIDs: []int64{teacher.ID},
			})
			if err != nil {
				t.Fatalf("CreateSubject failed: %v", err)
			}
			listed, err := store.ListSubjects(ctx)
			if err != nil {
				t.Fatalf("ListSubjects failed: %v", err)
			}
			if len(listed) != 1 || listed[0].ID != subject.ID || len(listed[0].SeminarLabTeacherIDs) != 1 {
				t.Fatalf("unexpected subjects %+v", listed)
			}

			if _, err := store.GetRoom(ctx, 12345); !errors.Is(err, persistence.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreContract_Admission(t *testing.T) {
	t.Parallel()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			teacher, _ := store.CreateTeacher(ctx, persistence.Teacher{Name: "Popescu Ion"})
			room, _ := store.CreateRoom(ctx, persistence.Room{Name: "A1", IsCourseRoom: true})
			year, _ := store.CreateStudentYear(ctx, persistence.StudentYear{Year: 1})
			subject, err := store.CreateSubject(ctx, persistence.Subject{Name: "Logic", CourseTeacherID: teacher.ID, StudentYearID: year.ID})
			if err != nil {
				t.Fatalf("CreateSubject failed: %v", err)
			}

			entry := persistence.ScheduleEntry{
				DayOfWeek: "Monday", StartHour: 8, EndHour: 10, ClassType: "Course",
				SubjectID: subject.ID, RoomID: room.ID, TeacherID: teacher.ID,
			}

			rejection := errors.New("rejected")
			var wg sync.WaitGroup
			results := make(chan error, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := store.AdmitScheduleEntry(ctx, entry, func(s persistence.AdmissionSnapshot) error {
						if len(s.Existing) > 0 {
							return rejection
						}
						return nil
					})
					results <- err
				}()
			}
			wg.Wait()
			close(results)

			var admitted int
			for err := range results {
				switch {
				case err == nil:
					admitted++
				case !errors.Is(err, rejection):
					t.Fatalf("unexpected error %v", err)
				}
			}
			if admitted != 1 {
				t.Fatalf("expected exactly one admission, got %d", admitted)
			}

			all, err := store.ListScheduleEntries(ctx)
			if err != nil {
				t.Fatalf("ListScheduleEntries failed: %v", err)
			}
			again, err := store.ListScheduleEntries(ctx)
			if err != nil {
				t.Fatalf("ListScheduleEntries failed: %v", err)
			}
			if len(all) != 1 || len(again) != 1 || all[0] != again[0] {
				t.Fatalf("expected stable single-entry listing, got %+v then %+v", all, again)
			}

			deleted, err := store.DeleteScheduleEntry(ctx, all[0].ID+1000)
			if err != nil || deleted {
				t.Fatalf("expected delete of absent id to report false, got %v, %v", deleted, err)
			}
		})
	}
}

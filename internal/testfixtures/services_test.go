package testfixtures

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/academic-timetable/internal/application"
	"github.com/example/academic-timetable/internal/scheduler"
)

func TestTimetableServiceOverSQLite(t *testing.T) {
	store := NewSQLiteStorage(t)
	catalog := SeedCatalog(t, store)
	svc := NewServiceFactory(WithOccupancy(scheduler.NewBucketIndex)).NewTimetableService(store)
	ctx := context.Background()

	course, err := svc.CreateScheduleEntry(ctx, Input(catalog.CourseEntry()))
	if err != nil {
		t.Fatalf("CreateScheduleEntry returned error: %v", err)
	}

	lab, err := svc.CreateScheduleEntry(ctx, Input(catalog.LabEntry()))
	if err != nil {
		t.Fatalf("expected parallel lab in another room with another teacher, got %v", err)
	}

	_, err = svc.CreateScheduleEntry(ctx, Input(catalog.LabEntry(WithHours(9, 11), WithTeacher(catalog.SpareTeacher.ID))))
	var rErr *application.RejectionError
	if !errors.As(err, &rErr) || rErr.Rejection.Rule != scheduler.RuleRoomOverlap || rErr.Rejection.ConflictingEntryID != lab.ID {
		t.Fatalf("expected room overlap with %d, got %v", lab.ID, err)
	}

	_, err = svc.CreateScheduleEntry(ctx, Input(catalog.CourseEntry(WithRoom(999), WithDay("Tuesday"))))
	if !errors.As(err, &rErr) || rErr.Kind() != scheduler.KindNotFound {
		t.Fatalf("expected room not found rejection, got %v", err)
	}

	entries, err := svc.ListScheduleEntriesByGroup(ctx, "1A1")
	if err != nil {
		t.Fatalf("ListScheduleEntriesByGroup returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != lab.ID {
		t.Fatalf("unexpected group entries %+v", entries)
	}

	deleted, err := svc.DeleteScheduleEntry(ctx, course.ID)
	if err != nil || !deleted {
		t.Fatalf("expected delete to succeed, got %v, %v", deleted, err)
	}
}

func TestTimetableServiceOverSQLite_ConcurrentAdmissions(t *testing.T) {
	store := NewSQLiteStorage(t)
	catalog := SeedCatalog(t, store)
	ctx := context.Background()

	// Separate services do not share a keyed lock, so only the store
	// transaction serializes them.
	factory := NewServiceFactory()
	teachers := []int64{catalog.CourseTeacher.ID, catalog.LabTeacher.ID, catalog.SpareTeacher.ID}

	const attempts = 12
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc := factory.NewTimetableService(store)
			entry := catalog.CourseEntry(WithDay("Thursday"), WithHours(10+i%2, 12+i%2), WithTeacher(teachers[i%len(teachers)]))
			_, err := svc.CreateScheduleEntry(ctx, Input(entry))
			if err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
				return
			}
			var rErr *application.RejectionError
			if !errors.As(err, &rErr) || rErr.Kind() != scheduler.KindConflict {
				t.Errorf("expected conflict rejection, got %v", err)
			}
		}(i)
	}
	wg.Wait()

	if admitted != 1 {
		t.Fatalf("expected exactly one admission, got %d", admitted)
	}
	entries, err := store.ListScheduleEntries(ctx)
	if err != nil {
		t.Fatalf("ListScheduleEntries returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one stored entry, got %d", len(entries))
	}
}

func TestCatalogServiceOverSQLite(t *testing.T) {
	store := NewSQLiteStorage(t)
	svc := NewServiceFactory().NewCatalogService(store)
	ctx := context.Background()

	year, err := svc.CreateStudentYear(ctx, application.StudentYearInput{Year: 2})
	if err != nil {
		t.Fatalf("CreateStudentYear returned error: %v", err)
	}
	if _, err := svc.CreateStudentYear(ctx, application.StudentYearInput{Year: 2}); !errors.Is(err, application.ErrAlreadyExists) {
		t.Fatalf("expected duplicate year to be rejected, got %v", err)
	}

	group, err := svc.CreateStudentGroup(ctx, application.StudentGroupInput{StudentYearID: year.ID, Letter: "B2"})
	if err != nil {
		t.Fatalf("CreateStudentGroup returned error: %v", err)
	}
	if group.Name() != "2B2" {
		t.Fatalf("unexpected group name %q", group.Name())
	}

	if _, err := svc.CreateStudentGroup(ctx, application.StudentGroupInput{StudentYearID: year.ID + 40, Letter: "C1"}); !errors.Is(err, application.ErrReferenceMissing) {
		t.Fatalf("expected missing year to be reported, got %v", err)
	}
}

package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/academic-timetable/internal/persistence"
	"github.com/example/academic-timetable/internal/persistence/memory"
	"github.com/example/academic-timetable/internal/scheduler"
)

type timetableFixture struct {
	store      *memory.Storage
	service    *TimetableService
	courseRoom int64
	labRoom    int64
	teachers   []int64
	subject    int64
	groupA1Y1  int64
	groupA1Y2  int64
}

func newTimetableFixture(t *testing.T, factory scheduler.OccupancyFactory) timetableFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	f := timetableFixture{store: store, service: NewTimetableService(store, scheduler.NewValidator(factory), quietLogger())}

	for _, name := range []string{"Popescu Ion", "Ionescu Maria", "Georgescu Ana"} {
		teacher, err := store.CreateTeacher(ctx, persistence.Teacher{Name: name})
		if err != nil {
			t.Fatalf("CreateTeacher returned error: %v", err)
		}
		f.teachers = append(f.teachers, teacher.ID)
	}
	course, err := store.CreateRoom(ctx, persistence.Room{Name: "A1", IsCourseRoom: true})
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	lab, err := store.CreateRoom(ctx, persistence.Room{Name: "Lab 101"})
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	f.courseRoom, f.labRoom = course.ID, lab.ID

	year1, _ := store.CreateStudentYear(ctx, persistence.StudentYear{Year: 1})
	year2, _ := store.CreateStudentYear(ctx, persistence.StudentYear{Year: 2})
	g1, err := store.CreateStudentGroup(ctx, persistence.StudentGroup{StudentYearID: year1.ID, Letter: "A1"})
	if err != nil {
		t.Fatalf("CreateStudentGroup returned error: %v", err)
	}
	g2, err := store.CreateStudentGroup(ctx, persistence.StudentGroup{StudentYearID: year2.ID, Letter: "A1"})
	if err != nil {
		t.Fatalf("CreateStudentGroup returned error: %v", err)
	}
	f.groupA1Y1, f.groupA1Y2 = g1.ID, g2.ID

	subject, err := store.CreateSubject(ctx, persistence.Subject{Name: "Algorithms", CourseTeacherID: f.teachers[0], StudentYearID: year1.ID})
	if err != nil {
		t.Fatalf("CreateSubject returned error: %v", err)
	}
	f.subject = subject.ID
	return f
}

func (f timetableFixture) input(day string, start, end int, roomID, teacherID int64, classType string) ScheduleEntryInput {
	subject := f.subject
	return ScheduleEntryInput{
		DayOfWeek: day,
		StartHour: &start,
		EndHour:   &end,
		SubjectID: &subject,
		RoomID:    &roomID,
		TeacherID: &teacherID,
		ClassType: classType,
	}
}

func requireRejection(t *testing.T, err error, kind scheduler.RejectionKind, rule scheduler.Rule) *RejectionError {
	t.Helper()
	var rErr *RejectionError
	if !errors.As(err, &rErr) {
		t.Fatalf("expected *RejectionError, got %v", err)
	}
	if rErr.Kind() != kind || rErr.Rejection.Rule != rule {
		t.Fatalf("expected %s/%s, got %s/%s", kind, rule, rErr.Kind(), rErr.Rejection.Rule)
	}
	return rErr
}

func TestTimetableService_CreateScheduleEntry(t *testing.T) {
	t.Parallel()

	for name, factory := range map[string]scheduler.OccupancyFactory{"linear": scheduler.NewLinearScan, "bucket": scheduler.NewBucketIndex} {
		t.Run(name, func(t *testing.T) {
			f := newTimetableFixture(t, factory)
			ctx := context.Background()

			first, err := f.service.CreateScheduleEntry(ctx, f.input("Monday", 8, 10, f.courseRoom, f.teachers[0], "Course"))
			if err != nil {
				t.Fatalf("CreateScheduleEntry returned error: %v", err)
			}
			if first.ID == 0 || first.ClassType != "Course" || first.StudentGroupID != nil {
				t.Fatalf("unexpected entry %+v", first)
			}

			_, err = f.service.CreateScheduleEntry(ctx, f.input("Monday", 9, 11, f.courseRoom, f.teachers[1], "Course"))
			rErr := requireRejection(t, err, scheduler.KindConflict, scheduler.RuleRoomOverlap)
			if rErr.Rejection.ConflictingEntryID != first.ID {
				t.Fatalf("expected conflict with %d, got %d", first.ID, rErr.Rejection.ConflictingEntryID)
			}
			if rErr.Error() != "Room is already occupied at that time." {
				t.Fatalf("unexpected message %q", rErr.Error())
			}

			_, err = f.service.CreateScheduleEntry(ctx, f.input("Monday", 8, 10, f.labRoom, f.teachers[0], "Course"))
			requireRejection(t, err, scheduler.KindConflict, scheduler.RuleTeacherOverlap)

			if _, err := f.service.CreateScheduleEntry(ctx, f.input("Monday", 10, 12, f.courseRoom, f.teachers[0], "Course")); err != nil {
				t.Fatalf("expected abutting entry to be admitted, got %v", err)
			}

			entries, err := f.service.ListScheduleEntries(ctx)
			if err != nil {
				t.Fatalf("ListScheduleEntries returned error: %v", err)
			}
			if len(entries) != 2 {
				t.Fatalf("expected only admitted entries to be stored, got %d", len(entries))
			}
		})
	}
}

func TestTimetableService_CreateScheduleEntry_Rejections(t *testing.T) {
	t.Parallel()

	f := newTimetableFixture(t, nil)
	ctx := context.Background()

	seminar := f.input("Tuesday", 10, 12, f.labRoom, f.teachers[2], "Seminar")

	missingGroup := f.input("Tuesday", 10, 12, f.labRoom, f.teachers[2], "Laboratory")

	noDay := f.input("", 10, 12, f.courseRoom, f.teachers[0], "Course")

	tests := []struct {
		name  string
		input ScheduleEntryInput
		kind  scheduler.RejectionKind
		rule  scheduler.Rule
	}{
		{name: "missing day", input: noDay, kind: scheduler.KindValidation, rule: scheduler.RuleRequiredFields},
		{name: "seminar without group", input: seminar, kind: scheduler.KindValidation, rule: scheduler.RuleStudentGroup},
		{name: "laboratory without group", input: missingGroup, kind: scheduler.KindValidation, rule: scheduler.RuleStudentGroup},
		{name: "six to eight fails the hour range", input: f.input("Monday", 6, 8, f.courseRoom, f.teachers[0], "Course"), kind: scheduler.KindValidation, rule: scheduler.RuleHourRange},
		{name: "three hours", input: f.input("Monday", 8, 11, f.courseRoom, f.teachers[0], "Course"), kind: scheduler.KindValidation, rule: scheduler.RuleDuration},
		{name: "saturday", input: f.input("Saturday", 8, 10, f.courseRoom, f.teachers[0], "Course"), kind: scheduler.KindValidation, rule: scheduler.RuleWeekday},
		{name: "unknown room", input: f.input("Monday", 8, 10, 999, f.teachers[0], "Course"), kind: scheduler.KindNotFound, rule: scheduler.RuleRoomExists},
		{name: "course in lab", input: f.input("Monday", 8, 10, f.labRoom, f.teachers[0], "Course"), kind: scheduler.KindValidation, rule: scheduler.RuleRoomCompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateScheduleEntry(ctx, tt.input)
			requireRejection(t, err, tt.kind, tt.rule)
		})
	}

	entries, _ := f.service.ListScheduleEntries(ctx)
	if len(entries) != 0 {
		t.Fatalf("expected rejected candidates to leave the store untouched, got %d entries", len(entries))
	}
}

func TestTimetableService_CreateScheduleEntry_MissingSubject(t *testing.T) {
	t.Parallel()

	f := newTimetableFixture(t, nil)
	input := f.input("Monday", 8, 10, f.courseRoom, f.teachers[0], "Course")
	missing := int64(4242)
	input.SubjectID = &missing

	_, err := f.service.CreateScheduleEntry(context.Background(), input)
	if !errors.Is(err, ErrReferenceMissing) {
		t.Fatalf("expected ErrReferenceMissing, got %v", err)
	}
	if ErrorKind(err) != "reference_missing" {
		t.Fatalf("unexpected error kind %q", ErrorKind(err))
	}
}

func TestTimetableService_CreateScheduleEntry_Concurrent(t *testing.T) {
	t.Parallel()

	f := newTimetableFixture(t, scheduler.NewBucketIndex)
	ctx := context.Background()

	const attempts = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			teacher := f.teachers[i%len(f.teachers)]
			_, err := f.service.CreateScheduleEntry(ctx, f.input("Wednesday", 12+i%2, 14+i%2, f.courseRoom, teacher, "Course"))
			if err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
				return
			}
			var rErr *RejectionError
			if !errors.As(err, &rErr) || rErr.Kind() != scheduler.KindConflict {
				t.Errorf("expected conflict rejection, got %v", err)
			}
		}(i)
	}
	wg.Wait()

	if admitted != 1 {
		t.Fatalf("expected exactly one admission, got %d", admitted)
	}
}

func TestTimetableService_ListScheduleEntriesByGroup(t *testing.T) {
	t.Parallel()

	f := newTimetableFixture(t, nil)
	ctx := context.Background()

	lab := f.input("Thursday", 14, 16, f.labRoom, f.teachers[2], "Laboratory")
	lab.StudentGroupID = &f.groupA1Y1
	first, err := f.service.CreateScheduleEntry(ctx, lab)
	if err != nil {
		t.Fatalf("CreateScheduleEntry returned error: %v", err)
	}

	lab2 := f.input("Friday", 14, 16, f.labRoom, f.teachers[2], "Laboratory")
	lab2.StudentGroupID = &f.groupA1Y2
	second, err := f.service.CreateScheduleEntry(ctx, lab2)
	if err != nil {
		t.Fatalf("CreateScheduleEntry returned error: %v", err)
	}

	tests := []struct {
		name    string
		group   string
		wantIDs []int64
		wantErr error
	}{
		{name: "letter resolves to lowest year", group: "A1", wantIDs: []int64{first.ID}},
		{name: "qualified with year", group: "2A1", wantIDs: []int64{second.ID}},
		{name: "unknown letter", group: "Z9", wantErr: ErrNotFound},
		{name: "unknown year", group: "3A1", wantErr: ErrNotFound},
		{name: "malformed", group: "first-year", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := f.service.ListScheduleEntriesByGroup(ctx, tt.group)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ListScheduleEntriesByGroup returned error: %v", err)
			}
			if len(entries) != len(tt.wantIDs) {
				t.Fatalf("expected %d entries, got %d", len(tt.wantIDs), len(entries))
			}
			for i, id := range tt.wantIDs {
				if entries[i].ID != id {
					t.Fatalf("expected entry %d at %d, got %d", id, i, entries[i].ID)
				}
			}
		})
	}
}

func TestTimetableService_GetAndDelete(t *testing.T) {
	t.Parallel()

	f := newTimetableFixture(t, nil)
	ctx := context.Background()

	entry, err := f.service.CreateScheduleEntry(ctx, f.input("Monday", 8, 10, f.courseRoom, f.teachers[0], "Course"))
	if err != nil {
		t.Fatalf("CreateScheduleEntry returned error: %v", err)
	}

	got, err := f.service.GetScheduleEntry(ctx, entry.ID)
	if err != nil || got.ID != entry.ID {
		t.Fatalf("GetScheduleEntry = %+v, %v", got, err)
	}

	deleted, err := f.service.DeleteScheduleEntry(ctx, entry.ID)
	if err != nil || !deleted {
		t.Fatalf("expected first delete to succeed, got %v, %v", deleted, err)
	}
	deleted, err = f.service.DeleteScheduleEntry(ctx, entry.ID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to report false, got %v, %v", deleted, err)
	}

	if _, err := f.service.GetScheduleEntry(ctx, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// The slot is free again.
	if _, err := f.service.CreateScheduleEntry(ctx, f.input("Monday", 8, 10, f.courseRoom, f.teachers[1], "Course")); err != nil {
		t.Fatalf("expected freed slot to be admitted, got %v", err)
	}
}

type failingScheduleStore struct {
	ScheduleRepository
	err error
}

func (s failingScheduleStore) AdmitScheduleEntry(ctx context.Context, entry persistence.ScheduleEntry, decide persistence.AdmissionFunc) (persistence.ScheduleEntry, error) {
	return persistence.ScheduleEntry{}, s.err
}

func (s failingScheduleStore) ListScheduleEntries(ctx context.Context) ([]persistence.ScheduleEntry, error) {
	return nil, s.err
}

func TestTimetableService_StoreFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk I/O error")
	svc := NewTimetableService(failingScheduleStore{err: boom}, nil, quietLogger())
	f := newTimetableFixture(t, nil)

	_, err := svc.CreateScheduleEntry(context.Background(), f.input("Monday", 8, 10, f.courseRoom, f.teachers[0], "Course"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
	var rErr *RejectionError
	if errors.As(err, &rErr) {
		t.Fatalf("store failures must not look like rejections")
	}

	if _, err := svc.ListScheduleEntries(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected list error to propagate, got %v", err)
	}
}

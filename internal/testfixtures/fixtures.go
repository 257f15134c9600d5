package testfixtures

import (
	"context"
	"testing"

	"github.com/example/academic-timetable/internal/application"
	"github.com/example/academic-timetable/internal/persistence"
)

// Catalog is the reference data created by SeedCatalog.
type Catalog struct {
	CourseTeacher persistence.Teacher
	LabTeacher    persistence.Teacher
	SpareTeacher  persistence.Teacher
	CourseRoom    persistence.Room
	LabRoom       persistence.Room
	Year          persistence.StudentYear
	Group         persistence.StudentGroup
	Subject       persistence.Subject
}

// SeedCatalog stores three teachers, a course room, a lab room, year 1 with
// group A1 and one subject taught by the first two teachers.
func SeedCatalog(tb testing.TB, store persistence.Store) Catalog {
	tb.Helper()
	ctx := context.Background()

	var (
		c   Catalog
		err error
	)
	must := func(what string) {
		if err != nil {
			tb.Fatalf("failed to create %s: %v", what, err)
		}
	}

	c.CourseTeacher, err = store.CreateTeacher(ctx, persistence.Teacher{Name: "Popescu Ion"})
	must("teacher")
	c.LabTeacher, err = store.CreateTeacher(ctx, persistence.Teacher{Name: "Ionescu Maria"})
	must("teacher")
	c.SpareTeacher, err = store.CreateTeacher(ctx, persistence.Teacher{Name: "Georgescu Ana"})
	must("teacher")
	c.CourseRoom, err = store.CreateRoom(ctx, persistence.Room{Name: "A1", IsCourseRoom: true})
	must("room")
	c.LabRoom, err = store.CreateRoom(ctx, persistence.Room{Name: "Lab 101"})
	must("room")
	c.Year, err = store.CreateStudentYear(ctx, persistence.StudentYear{Year: 1})
	must("student year")
	c.Group, err = store.CreateStudentGroup(ctx, persistence.StudentGroup{StudentYearID: c.Year.ID, Letter: "A1"})
	must("student group")
	c.Subject, err = store.CreateSubject(ctx, persistence.Subject{
		Name:                 "Algorithms",
		CourseTeacherID:      c.CourseTeacher.ID,
		StudentYearID:        c.Year.ID,
		SeminarLabTeacherIDs: []int64{c.LabTeacher.ID},
	})
	must("subject")
	return c
}

// EntryOption customises a schedule entry fixture.
type EntryOption func(*persistence.ScheduleEntry)

// CourseEntry returns a Monday 8-10 course in the catalog's course room.
func (c Catalog) CourseEntry(opts ...EntryOption) persistence.ScheduleEntry {
	entry := persistence.ScheduleEntry{
		DayOfWeek: "Monday",
		StartHour: 8,
		EndHour:   10,
		ClassType: "Course",
		SubjectID: c.Subject.ID,
		RoomID:    c.CourseRoom.ID,
		TeacherID: c.CourseTeacher.ID,
	}
	for _, opt := range opts {
		opt(&entry)
	}
	return entry
}

// LabEntry returns a Monday 8-10 laboratory for the catalog's group in the lab room.
func (c Catalog) LabEntry(opts ...EntryOption) persistence.ScheduleEntry {
	group := c.Group.ID
	entry := persistence.ScheduleEntry{
		DayOfWeek:      "Monday",
		StartHour:      8,
		EndHour:        10,
		ClassType:      "Laboratory",
		SubjectID:      c.Subject.ID,
		RoomID:         c.LabRoom.ID,
		TeacherID:      c.LabTeacher.ID,
		StudentGroupID: &group,
	}
	for _, opt := range opts {
		opt(&entry)
	}
	return entry
}

// WithDay overrides the day of week.
func WithDay(day string) EntryOption {
	return func(e *persistence.ScheduleEntry) {
		e.DayOfWeek = day
	}
}

// WithHours overrides the start and end hour.
func WithHours(start, end int) EntryOption {
	return func(e *persistence.ScheduleEntry) {
		e.StartHour = start
		e.EndHour = end
	}
}

// WithRoom overrides the room.
func WithRoom(id int64) EntryOption {
	return func(e *persistence.ScheduleEntry) {
		e.RoomID = id
	}
}

// WithTeacher overrides the teacher.
func WithTeacher(id int64) EntryOption {
	return func(e *persistence.ScheduleEntry) {
		e.TeacherID = id
	}
}

// Input converts a stored-shape entry into the service input with every field set.
func Input(entry persistence.ScheduleEntry) application.ScheduleEntryInput {
	start, end := entry.StartHour, entry.EndHour
	subject, room, teacher := entry.SubjectID, entry.RoomID, entry.TeacherID
	var group *int64
	if entry.StudentGroupID != nil {
		id := *entry.StudentGroupID
		group = &id
	}
	return application.ScheduleEntryInput{
		DayOfWeek:      entry.DayOfWeek,
		StartHour:      &start,
		EndHour:        &end,
		SubjectID:      &subject,
		RoomID:         &room,
		TeacherID:      &teacher,
		ClassType:      entry.ClassType,
		StudentGroupID: group,
	}
}

package persistence

import "context"

// TeacherRepository stores teachers.
type TeacherRepository interface {
	CreateTeacher(ctx context.Context, teacher Teacher) (Teacher, error)
	GetTeacher(ctx context.Context, id int64) (Teacher, error)
	ListTeachers(ctx context.Context) ([]Teacher, error)
}

// RoomRepository stores rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
}

// StudentYearRepository stores student years.
type StudentYearRepository interface {
	CreateStudentYear(ctx context.Context, year StudentYear) (StudentYear, error)
	GetStudentYear(ctx context.Context, id int64) (StudentYear, error)
	ListStudentYears(ctx context.Context) ([]StudentYear, error)
}

// StudentGroupRepository stores student groups.
type StudentGroupRepository interface {
	CreateStudentGroup(ctx context.Context, group StudentGroup) (StudentGroup, error)
	GetStudentGroup(ctx context.Context, id int64) (StudentGroup, error)
	ListStudentGroups(ctx context.Context) ([]StudentGroup, error)
	// FindStudentGroupsByLetter returns every group with the letter, lowest year first.
	FindStudentGroupsByLetter(ctx context.Context, letter string) ([]StudentGroup, error)
}

// SubjectRepository stores subjects and their seminar/laboratory teachers.
type SubjectRepository interface {
	CreateSubject(ctx context.Context, subject Subject) (Subject, error)
	GetSubject(ctx context.Context, id int64) (Subject, error)
	ListSubjects(ctx context.Context) ([]Subject, error)
}

// AdmissionSnapshot is what an admission decision sees: the stored entries on
// the candidate's day that share its room or teacher, and the requested room
// (nil when it does not exist).
type AdmissionSnapshot struct {
	Existing []ScheduleEntry
	Room     *Room
}

// AdmissionFunc decides whether the candidate may be stored. A non-nil error
// aborts the admission and is returned unchanged.
type AdmissionFunc func(snapshot AdmissionSnapshot) error

// ScheduleEntryRepository stores schedule entries.
type ScheduleEntryRepository interface {
	// CreateScheduleEntry inserts without any admission check.
	CreateScheduleEntry(ctx context.Context, entry ScheduleEntry) (ScheduleEntry, error)
	GetScheduleEntry(ctx context.Context, id int64) (ScheduleEntry, error)
	ListScheduleEntries(ctx context.Context) ([]ScheduleEntry, error)
	ListScheduleEntriesByGroup(ctx context.Context, groupID int64) ([]ScheduleEntry, error)
	// DeleteScheduleEntry reports whether a row was removed.
	DeleteScheduleEntry(ctx context.Context, id int64) (bool, error)
	// AdmitScheduleEntry reads the snapshot, calls decide and inserts the entry
	// as one atomic step with respect to other admissions.
	AdmitScheduleEntry(ctx context.Context, entry ScheduleEntry, decide AdmissionFunc) (ScheduleEntry, error)
}

// Store is the full entity store.
type Store interface {
	TeacherRepository
	RoomRepository
	StudentYearRepository
	StudentGroupRepository
	SubjectRepository
	ScheduleEntryRepository
	Ping(ctx context.Context) error
	Close() error
}

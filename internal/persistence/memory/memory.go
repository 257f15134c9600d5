// Package memory is an in-process entity store. It enforces the same
// uniqueness, reference and format rules as the SQLite schema.
package memory

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/example/academic-timetable/internal/persistence"
)

var groupLetterPattern = regexp.MustCompile(`^[A-Z][0-9]$`)

var teachingDays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true, "Friday": true,
}

var classTypes = map[string]bool{"Course": true, "Seminar": true, "Laboratory": true}

// Storage keeps every entity in maps guarded by one RWMutex.
type Storage struct {
	mu       sync.RWMutex
	nextID   map[string]int64
	teachers map[int64]persistence.Teacher
	rooms    map[int64]persistence.Room
	years    map[int64]persistence.StudentYear
	groups   map[int64]persistence.StudentGroup
	subjects map[int64]persistence.Subject
	entries  map[int64]persistence.ScheduleEntry
}

var _ persistence.Store = (*Storage)(nil)

// New returns an empty Storage.
func New() *Storage {
	return &Storage{
		nextID:   make(map[string]int64),
		teachers: make(map[int64]persistence.Teacher),
		rooms:    make(map[int64]persistence.Room),
		years:    make(map[int64]persistence.StudentYear),
		groups:   make(map[int64]persistence.StudentGroup),
		subjects: make(map[int64]persistence.Subject),
		entries:  make(map[int64]persistence.ScheduleEntry),
	}
}

// Close is a no-op.
func (s *Storage) Close() error { return nil }

// Ping always succeeds.
func (s *Storage) Ping(context.Context) error { return nil }

func (s *Storage) allocateLocked(kind string) int64 {
	s.nextID[kind]++
	return s.nextID[kind]
}

func requireName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s name must not be empty", persistence.ErrConstraintViolation, kind)
	}
	return nil
}

// --- teachers ---

func (s *Storage) CreateTeacher(ctx context.Context, teacher persistence.Teacher) (persistence.Teacher, error) {
	if err := requireName("teacher", teacher.Name); err != nil {
		return persistence.Teacher{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.teachers {
		if existing.Name == teacher.Name {
			return persistence.Teacher{}, fmt.Errorf("%w: teacher %q", persistence.ErrDuplicate, teacher.Name)
		}
	}
	teacher.ID = s.allocateLocked("teacher")
	s.teachers[teacher.ID] = teacher
	return teacher, nil
}

func (s *Storage) GetTeacher(ctx context.Context, id int64) (persistence.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teacher, ok := s.teachers[id]
	if !ok {
		return persistence.Teacher{}, persistence.ErrNotFound
	}
	return teacher, nil
}

func (s *Storage) ListTeachers(ctx context.Context) ([]persistence.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.teachers, func(t persistence.Teacher) int64 { return t.ID }), nil
}

// --- rooms ---

func (s *Storage) CreateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error) {
	if err := requireName("room", room.Name); err != nil {
		return persistence.Room{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rooms {
		if existing.Name == room.Name {
			return persistence.Room{}, fmt.Errorf("%w: room %q", persistence.ErrDuplicate, room.Name)
		}
	}
	room.ID = s.allocateLocked("room")
	s.rooms[room.ID] = room
	return room, nil
}

func (s *Storage) GetRoom(ctx context.Context, id int64) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return room, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.rooms, func(r persistence.Room) int64 { return r.ID }), nil
}

// --- student years and groups ---

func (s *Storage) CreateStudentYear(ctx context.Context, year persistence.StudentYear) (persistence.StudentYear, error) {
	if year.Year < 1 {
		return persistence.StudentYear{}, fmt.Errorf("%w: year must be positive", persistence.ErrConstraintViolation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.years {
		if existing.Year == year.Year {
			return persistence.StudentYear{}, fmt.Errorf("%w: year %d", persistence.ErrDuplicate, year.Year)
		}
	}
	year.ID = s.allocateLocked("year")
	s.years[year.ID] = year
	return year, nil
}

func (s *Storage) GetStudentYear(ctx context.Context, id int64) (persistence.StudentYear, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	year, ok := s.years[id]
	if !ok {
		return persistence.StudentYear{}, persistence.ErrNotFound
	}
	return year, nil
}

func (s *Storage) ListStudentYears(ctx context.Context) ([]persistence.StudentYear, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	years := sortedValues(s.years, func(y persistence.StudentYear) int64 { return y.ID })
	sort.SliceStable(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years, nil
}

func (s *Storage) CreateStudentGroup(ctx context.Context, group persistence.StudentGroup) (persistence.StudentGroup, error) {
	if !groupLetterPattern.MatchString(group.Letter) {
		return persistence.StudentGroup{}, fmt.Errorf("%w: letter %q", persistence.ErrConstraintViolation, group.Letter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	year, ok := s.years[group.StudentYearID]
	if !ok {
		return persistence.StudentGroup{}, fmt.Errorf("%w: student year %d", persistence.ErrForeignKeyViolation, group.StudentYearID)
	}
	for _, existing := range s.groups {
		if existing.StudentYearID == group.StudentYearID && existing.Letter == group.Letter {
			return persistence.StudentGroup{}, fmt.Errorf("%w: group %s in year %d", persistence.ErrDuplicate, group.Letter, year.Year)
		}
	}
	group.ID = s.allocateLocked("group")
	group.Year = 0
	s.groups[group.ID] = group
	return s.withYearLocked(group), nil
}

func (s *Storage) GetStudentGroup(ctx context.Context, id int64) (persistence.StudentGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[id]
	if !ok {
		return persistence.StudentGroup{}, persistence.ErrNotFound
	}
	return s.withYearLocked(group), nil
}

func (s *Storage) ListStudentGroups(ctx context.Context) ([]persistence.StudentGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groupsLocked(func(persistence.StudentGroup) bool { return true }), nil
}

func (s *Storage) FindStudentGroupsByLetter(ctx context.Context, letter string) ([]persistence.StudentGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groupsLocked(func(g persistence.StudentGroup) bool { return g.Letter == letter }), nil
}

func (s *Storage) withYearLocked(group persistence.StudentGroup) persistence.StudentGroup {
	group.Year = s.years[group.StudentYearID].Year
	return group
}

// groupsLocked returns matching groups ordered by year, letter then id.
func (s *Storage) groupsLocked(match func(persistence.StudentGroup) bool) []persistence.StudentGroup {
	groups := []persistence.StudentGroup{}
	for _, group := range s.groups {
		if match(group) {
			groups = append(groups, s.withYearLocked(group))
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Year != groups[j].Year {
			return groups[i].Year < groups[j].Year
		}
		if groups[i].Letter != groups[j].Letter {
			return groups[i].Letter < groups[j].Letter
		}
		return groups[i].ID < groups[j].ID
	})
	return groups
}

// --- subjects ---

func (s *Storage) CreateSubject(ctx context.Context, subject persistence.Subject) (persistence.Subject, error) {
	if err := requireName("subject", subject.Name); err != nil {
		return persistence.Subject{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subjects {
		if existing.Name == subject.Name {
			return persistence.Subject{}, fmt.Errorf("%w: subject %q", persistence.ErrDuplicate, subject.Name)
		}
	}
	if _, ok := s.teachers[subject.CourseTeacherID]; !ok {
		return persistence.Subject{}, fmt.Errorf("%w: teacher %d", persistence.ErrForeignKeyViolation, subject.CourseTeacherID)
	}
	if _, ok := s.years[subject.StudentYearID]; !ok {
		return persistence.Subject{}, fmt.Errorf("%w: student year %d", persistence.ErrForeignKeyViolation, subject.StudentYearID)
	}
	for _, id := range subject.SeminarLabTeacherIDs {
		if _, ok := s.teachers[id]; !ok {
			return persistence.Subject{}, fmt.Errorf("%w: teacher %d", persistence.ErrForeignKeyViolation, id)
		}
	}

	subject.ID = s.allocateLocked("subject")
	subject.SeminarLabTeacherIDs = uniqueSortedIDs(subject.SeminarLabTeacherIDs)
	s.subjects[subject.ID] = subject
	return cloneSubject(subject), nil
}

func (s *Storage) GetSubject(ctx context.Context, id int64) (persistence.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subject, ok := s.subjects[id]
	if !ok {
		return persistence.Subject{}, persistence.ErrNotFound
	}
	return cloneSubject(subject), nil
}

func (s *Storage) ListSubjects(ctx context.Context) ([]persistence.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := sortedValues(s.subjects, func(sub persistence.Subject) int64 { return sub.ID })
	for i := range subjects {
		subjects[i] = cloneSubject(subjects[i])
	}
	return subjects, nil
}

// --- schedule entries ---

func (s *Storage) CreateScheduleEntry(ctx context.Context, entry persistence.ScheduleEntry) (persistence.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertEntryLocked(entry)
}

// AdmitScheduleEntry holds the write lock across the snapshot, the decision
// and the insert.
func (s *Storage) AdmitScheduleEntry(ctx context.Context, entry persistence.ScheduleEntry, decide persistence.AdmissionFunc) (persistence.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := persistence.AdmissionSnapshot{Existing: []persistence.ScheduleEntry{}}
	for _, existing := range sortedValues(s.entries, entryID) {
		if existing.DayOfWeek == entry.DayOfWeek &&
			(existing.RoomID == entry.RoomID || existing.TeacherID == entry.TeacherID) {
			snapshot.Existing = append(snapshot.Existing, cloneEntry(existing))
		}
	}
	if room, ok := s.rooms[entry.RoomID]; ok {
		snapshot.Room = &room
	}

	if err := decide(snapshot); err != nil {
		return persistence.ScheduleEntry{}, err
	}
	return s.insertEntryLocked(entry)
}

func (s *Storage) GetScheduleEntry(ctx context.Context, id int64) (persistence.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return persistence.ScheduleEntry{}, persistence.ErrNotFound
	}
	return cloneEntry(entry), nil
}

func (s *Storage) ListScheduleEntries(ctx context.Context) ([]persistence.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := sortedValues(s.entries, entryID)
	for i := range entries {
		entries[i] = cloneEntry(entries[i])
	}
	return entries, nil
}

func (s *Storage) ListScheduleEntriesByGroup(ctx context.Context, groupID int64) ([]persistence.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := []persistence.ScheduleEntry{}
	for _, entry := range sortedValues(s.entries, entryID) {
		if entry.StudentGroupID != nil && *entry.StudentGroupID == groupID {
			entries = append(entries, cloneEntry(entry))
		}
	}
	return entries, nil
}

func (s *Storage) DeleteScheduleEntry(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false, nil
	}
	delete(s.entries, id)
	return true, nil
}

func (s *Storage) insertEntryLocked(entry persistence.ScheduleEntry) (persistence.ScheduleEntry, error) {
	if !teachingDays[entry.DayOfWeek] || !classTypes[entry.ClassType] ||
		entry.StartHour < 8 || entry.EndHour > 20 || entry.EndHour <= entry.StartHour ||
		(entry.ClassType != "Course" && entry.StudentGroupID == nil) {
		return persistence.ScheduleEntry{}, fmt.Errorf("%w: schedule entry", persistence.ErrConstraintViolation)
	}
	if _, ok := s.subjects[entry.SubjectID]; !ok {
		return persistence.ScheduleEntry{}, fmt.Errorf("%w: subject %d", persistence.ErrForeignKeyViolation, entry.SubjectID)
	}
	if _, ok := s.rooms[entry.RoomID]; !ok {
		return persistence.ScheduleEntry{}, fmt.Errorf("%w: room %d", persistence.ErrForeignKeyViolation, entry.RoomID)
	}
	if _, ok := s.teachers[entry.TeacherID]; !ok {
		return persistence.ScheduleEntry{}, fmt.Errorf("%w: teacher %d", persistence.ErrForeignKeyViolation, entry.TeacherID)
	}
	if entry.StudentGroupID != nil {
		if _, ok := s.groups[*entry.StudentGroupID]; !ok {
			return persistence.ScheduleEntry{}, fmt.Errorf("%w: student group %d", persistence.ErrForeignKeyViolation, *entry.StudentGroupID)
		}
	}

	entry.ID = s.allocateLocked("entry")
	entry = cloneEntry(entry)
	s.entries[entry.ID] = entry
	return cloneEntry(entry), nil
}

func entryID(e persistence.ScheduleEntry) int64 { return e.ID }

func sortedValues[T any](m map[int64]T, id func(T) int64) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}

func cloneSubject(subject persistence.Subject) persistence.Subject {
	subject.SeminarLabTeacherIDs = append([]int64{}, subject.SeminarLabTeacherIDs...)
	return subject
}

func cloneEntry(entry persistence.ScheduleEntry) persistence.ScheduleEntry {
	if entry.StudentGroupID != nil {
		id := *entry.StudentGroupID
		entry.StudentGroupID = &id
	}
	return entry
}

func uniqueSortedIDs(ids []int64) []int64 {
	out := append([]int64{}, ids...)
	slices.Sort(out)
	return slices.Compact(out)
}

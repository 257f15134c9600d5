package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/academic-timetable/internal/persistence"
	"github.com/example/academic-timetable/internal/scheduler"
)

// ScheduleRepository captures the persistence operations needed by the timetable.
type ScheduleRepository interface {
	persistence.ScheduleEntryRepository
	FindStudentGroupsByLetter(ctx context.Context, letter string) ([]persistence.StudentGroup, error)
}

// TimetableService admits, lists and removes schedule entries.
type TimetableService struct {
	store     ScheduleRepository
	validator *scheduler.Validator
	locks     *scheduler.KeyedMutex
	logger    *slog.Logger
}

// NewTimetableService constructs a timetable service. A nil validator uses the
// linear occupancy scan.
func NewTimetableService(store ScheduleRepository, validator *scheduler.Validator, logger *slog.Logger) *TimetableService {
	if validator == nil {
		validator = scheduler.NewValidator(nil)
	}
	return &TimetableService{
		store:     store,
		validator: validator,
		locks:     scheduler.NewKeyedMutex(),
		logger:    defaultLogger(logger),
	}
}

func (s *TimetableService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TimetableService", operation, attrs...)
}

// CreateScheduleEntry admits the candidate and stores it. Reading the current
// timetable, validating and inserting happen as one step; a refused candidate
// yields a *RejectionError.
func (s *TimetableService) CreateScheduleEntry(ctx context.Context, input ScheduleEntryInput) (entry ScheduleEntry, err error) {
	if s == nil {
		err = fmt.Errorf("TimetableService is nil")
		return
	}

	candidate := input.candidate()
	logger := s.loggerWith(ctx, "CreateScheduleEntry",
		"day_of_week", candidate.DayOfWeek,
		"class_type", candidate.ClassType,
	)
	defer func() {
		if err != nil {
			var rErr *RejectionError
			if !errors.As(err, &rErr) {
				logger.ErrorContext(ctx, "failed to create schedule entry", "error", err, "error_kind", ErrorKind(err))
				return
			}
			attrs := []any{"error", err, "error_kind", ErrorKind(err), "rule", rErr.Rejection.Rule}
			if rErr.Rejection.ConflictingEntryID != 0 {
				attrs = append(attrs, "conflicting_entry_id", rErr.Rejection.ConflictingEntryID)
			}
			logger.WarnContext(ctx, "schedule entry rejected", attrs...)
			return
		}
		logger.With("schedule_entry_id", entry.ID).InfoContext(ctx, "schedule entry created")
	}()

	if err = s.validator.Precheck(candidate); err != nil {
		err = wrapAdmissionError(err)
		return
	}

	day := scheduler.DayOfWeek(candidate.DayOfWeek)
	unlock := s.locks.Lock(scheduler.AdmissionKeys(*candidate.RoomID, *candidate.TeacherID, day)...)
	defer unlock()

	record := persistence.ScheduleEntry{
		DayOfWeek:      candidate.DayOfWeek,
		StartHour:      *candidate.StartHour,
		EndHour:        *candidate.EndHour,
		ClassType:      candidate.ClassType,
		SubjectID:      *candidate.SubjectID,
		RoomID:         *candidate.RoomID,
		TeacherID:      *candidate.TeacherID,
		StudentGroupID: cloneID(candidate.StudentGroupID),
	}

	var stored persistence.ScheduleEntry
	stored, err = s.store.AdmitScheduleEntry(ctx, record, func(snapshot persistence.AdmissionSnapshot) error {
		return s.validator.Validate(candidate, toBookings(snapshot.Existing), toSchedulerRoom(snapshot.Room))
	})
	if err != nil {
		err = wrapAdmissionError(err)
		return
	}

	entry = toScheduleEntry(stored)
	return
}

// GetScheduleEntry returns the entry with the id or ErrNotFound.
func (s *TimetableService) GetScheduleEntry(ctx context.Context, id int64) (ScheduleEntry, error) {
	stored, err := s.store.GetScheduleEntry(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetScheduleEntry", "schedule_entry_id", id).
			DebugContext(ctx, "schedule entry lookup failed", "error", err, "error_kind", ErrorKind(err))
		return ScheduleEntry{}, err
	}
	return toScheduleEntry(stored), nil
}

// ListScheduleEntries returns every entry ordered by id.
func (s *TimetableService) ListScheduleEntries(ctx context.Context) ([]ScheduleEntry, error) {
	entries, err := s.store.ListScheduleEntries(ctx)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ListScheduleEntries").ErrorContext(ctx, "failed to list schedule entries", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return convertAll(entries, toScheduleEntry), nil
}

// ListScheduleEntriesByGroup returns the entries booked for the named group.
// The name is a group letter ("A1") or a year-qualified letter ("2A1"); an
// unqualified letter present in several years resolves to the lowest year.
// ErrNotFound is returned when no group matches.
func (s *TimetableService) ListScheduleEntriesByGroup(ctx context.Context, groupName string) (entries []ScheduleEntry, err error) {
	logger := s.loggerWith(ctx, "ListScheduleEntriesByGroup", "group_name", groupName)
	defer func() {
		if err != nil {
			logger.InfoContext(ctx, "failed to list group schedule", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	var group persistence.StudentGroup
	group, err = s.resolveGroup(ctx, groupName)
	if err != nil {
		return
	}

	var stored []persistence.ScheduleEntry
	stored, err = s.store.ListScheduleEntriesByGroup(ctx, group.ID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	entries = convertAll(stored, toScheduleEntry)
	return
}

// DeleteScheduleEntry removes the entry and reports whether it existed.
func (s *TimetableService) DeleteScheduleEntry(ctx context.Context, id int64) (bool, error) {
	logger := s.loggerWith(ctx, "DeleteScheduleEntry", "schedule_entry_id", id)
	deleted, err := s.store.DeleteScheduleEntry(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete schedule entry", "error", err, "error_kind", ErrorKind(err))
		return false, err
	}
	if deleted {
		logger.InfoContext(ctx, "schedule entry deleted")
	}
	return deleted, nil
}

var groupNamePattern = regexp.MustCompile(`^([0-9]+)?([A-Z][0-9])$`)

func (s *TimetableService) resolveGroup(ctx context.Context, name string) (persistence.StudentGroup, error) {
	match := groupNamePattern.FindStringSubmatch(strings.TrimSpace(name))
	if match == nil {
		return persistence.StudentGroup{}, fmt.Errorf("%w: student group %q", ErrNotFound, name)
	}

	groups, err := s.store.FindStudentGroupsByLetter(ctx, match[2])
	if err != nil {
		return persistence.StudentGroup{}, mapRepoError(err)
	}
	if match[1] == "" {
		if len(groups) > 0 {
			return groups[0], nil
		}
		return persistence.StudentGroup{}, fmt.Errorf("%w: student group %q", ErrNotFound, name)
	}

	year, err := strconv.Atoi(match[1])
	if err != nil {
		return persistence.StudentGroup{}, fmt.Errorf("%w: student group %q", ErrNotFound, name)
	}
	for _, group := range groups {
		if group.Year == year {
			return group, nil
		}
	}
	return persistence.StudentGroup{}, fmt.Errorf("%w: student group %q", ErrNotFound, name)
}

func qualifiedGroupName(year int, letter string) string {
	if year <= 0 {
		return letter
	}
	return strconv.Itoa(year) + letter
}

func (in ScheduleEntryInput) candidate() scheduler.Candidate {
	classType := strings.TrimSpace(in.ClassType)
	if parsed, ok := scheduler.ParseClassType(classType); ok {
		classType = string(parsed)
	}
	return scheduler.Candidate{
		DayOfWeek:      strings.TrimSpace(in.DayOfWeek),
		StartHour:      in.StartHour,
		EndHour:        in.EndHour,
		SubjectID:      in.SubjectID,
		RoomID:         in.RoomID,
		TeacherID:      in.TeacherID,
		ClassType:      classType,
		StudentGroupID: in.StudentGroupID,
	}
}

// wrapAdmissionError keeps rejections distinct from store failures.
func wrapAdmissionError(err error) error {
	if rErr, ok := asRejectionError(err); ok {
		return rErr
	}
	return mapRepoError(err)
}

func toBookings(entries []persistence.ScheduleEntry) []scheduler.Booking {
	bookings := make([]scheduler.Booking, 0, len(entries))
	for _, e := range entries {
		bookings = append(bookings, scheduler.Booking{
			EntryID:   e.ID,
			Day:       scheduler.DayOfWeek(e.DayOfWeek),
			StartHour: e.StartHour,
			EndHour:   e.EndHour,
			RoomID:    e.RoomID,
			TeacherID: e.TeacherID,
		})
	}
	return bookings
}

func toSchedulerRoom(room *persistence.Room) *scheduler.Room {
	if room == nil {
		return nil
	}
	return &scheduler.Room{ID: room.ID, Kind: scheduler.RoomKindOf(room.IsCourseRoom)}
}

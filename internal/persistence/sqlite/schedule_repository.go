package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/academic-timetable/internal/persistence"
)

// ScheduleEntryRepository implements persistence.ScheduleEntryRepository using SQLite.
type ScheduleEntryRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewScheduleEntryRepository creates a new SQLite schedule entry repository.
func NewScheduleEntryRepository(pool *ConnectionPool) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{pool: pool, mapper: NewErrorMapper()}
}

const selectScheduleEntry = `
	SELECT id, day_of_week, start_hour, end_hour, class_type,
	       subject_id, room_id, teacher_id, student_group_id
	FROM schedule_entries
`

// CreateScheduleEntry inserts an entry without any admission check.
func (r *ScheduleEntryRepository) CreateScheduleEntry(ctx context.Context, entry persistence.ScheduleEntry) (persistence.ScheduleEntry, error) {
	return r.insert(ctx, r.pool.DB(), entry)
}

// AdmitScheduleEntry runs decide against the entries sharing the candidate's
// room or teacher on its day and inserts the candidate when decide returns
// nil. The read and the insert share one IMMEDIATE transaction, so competing
// admissions are serialized by the database write lock.
func (r *ScheduleEntryRepository) AdmitScheduleEntry(ctx context.Context, entry persistence.ScheduleEntry, decide persistence.AdmissionFunc) (persistence.ScheduleEntry, error) {
	var stored persistence.ScheduleEntry
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := r.query(ctx, tx,
			selectScheduleEntry+` WHERE day_of_week = ? AND (room_id = ? OR teacher_id = ?) ORDER BY id ASC`,
			entry.DayOfWeek, entry.RoomID, entry.TeacherID,
		)
		if err != nil {
			return err
		}

		snapshot := persistence.AdmissionSnapshot{Existing: existing}
		room, err := getRoom(ctx, tx, r.mapper, entry.RoomID)
		switch {
		case err == nil:
			snapshot.Room = &room
		case !errors.Is(err, persistence.ErrNotFound):
			return err
		}

		if err := decide(snapshot); err != nil {
			return err
		}

		stored, err = r.insert(ctx, tx, entry)
		return err
	})
	if err != nil {
		return persistence.ScheduleEntry{}, err
	}
	return stored, nil
}

// GetScheduleEntry retrieves an entry by id.
func (r *ScheduleEntryRepository) GetScheduleEntry(ctx context.Context, id int64) (persistence.ScheduleEntry, error) {
	entries, err := r.query(ctx, r.pool.DB(), selectScheduleEntry+` WHERE id = ?`, id)
	if err != nil {
		return persistence.ScheduleEntry{}, err
	}
	if len(entries) == 0 {
		return persistence.ScheduleEntry{}, persistence.ErrNotFound
	}
	return entries[0], nil
}

// ListScheduleEntries returns every entry ordered by id.
func (r *ScheduleEntryRepository) ListScheduleEntries(ctx context.Context) ([]persistence.ScheduleEntry, error) {
	return r.query(ctx, r.pool.DB(), selectScheduleEntry+` ORDER BY id ASC`)
}

// ListScheduleEntriesByGroup returns the entries attached to a student group.
func (r *ScheduleEntryRepository) ListScheduleEntriesByGroup(ctx context.Context, groupID int64) ([]persistence.ScheduleEntry, error) {
	return r.query(ctx, r.pool.DB(), selectScheduleEntry+` WHERE student_group_id = ? ORDER BY id ASC`, groupID)
}

// DeleteScheduleEntry removes an entry and reports whether it existed.
func (r *ScheduleEntryRepository) DeleteScheduleEntry(ctx context.Context, id int64) (bool, error) {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = ?`, id)
	if err != nil {
		return false, r.mapper.MapError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *ScheduleEntryRepository) insert(ctx context.Context, q querier, entry persistence.ScheduleEntry) (persistence.ScheduleEntry, error) {
	var groupID sql.NullInt64
	if entry.StudentGroupID != nil {
		groupID = sql.NullInt64{Int64: *entry.StudentGroupID, Valid: true}
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO schedule_entries
			(day_of_week, start_hour, end_hour, class_type, subject_id, room_id, teacher_id, student_group_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.DayOfWeek,
		entry.StartHour,
		entry.EndHour,
		entry.ClassType,
		entry.SubjectID,
		entry.RoomID,
		entry.TeacherID,
		groupID,
	)
	if err != nil {
		return persistence.ScheduleEntry{}, r.mapper.MapError(err)
	}
	if entry.ID, err = result.LastInsertId(); err != nil {
		return persistence.ScheduleEntry{}, fmt.Errorf("failed to read schedule entry id: %w", err)
	}
	return entry, nil
}

func (r *ScheduleEntryRepository) query(ctx context.Context, q querier, query string, args ...any) ([]persistence.ScheduleEntry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	entries := []persistence.ScheduleEntry{}
	for rows.Next() {
		var (
			entry   persistence.ScheduleEntry
			groupID sql.NullInt64
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.DayOfWeek,
			&entry.StartHour,
			&entry.EndHour,
			&entry.ClassType,
			&entry.SubjectID,
			&entry.RoomID,
			&entry.TeacherID,
			&groupID,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if groupID.Valid {
			id := groupID.Int64
			entry.StudentGroupID = &id
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return entries, nil
}

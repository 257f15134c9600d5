package sqlite

import (
	"context"
	"fmt"

	"github.com/example/academic-timetable/internal/persistence"
)

// TeacherRepository implements persistence.TeacherRepository using SQLite.
type TeacherRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewTeacherRepository creates a new SQLite teacher repository.
func NewTeacherRepository(pool *ConnectionPool) *TeacherRepository {
	return &TeacherRepository{pool: pool, mapper: NewErrorMapper()}
}

// CreateTeacher inserts a teacher and returns it with its assigned id.
func (r *TeacherRepository) CreateTeacher(ctx context.Context, teacher persistence.Teacher) (persistence.Teacher, error) {
	result, err := r.pool.DB().ExecContext(ctx, `INSERT INTO teachers (name) VALUES (?)`, teacher.Name)
	if err != nil {
		return persistence.Teacher{}, r.mapper.MapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return persistence.Teacher{}, fmt.Errorf("failed to read teacher id: %w", err)
	}
	teacher.ID = id
	return teacher, nil
}

// GetTeacher retrieves a teacher by id.
func (r *TeacherRepository) GetTeacher(ctx context.Context, id int64) (persistence.Teacher, error) {
	var teacher persistence.Teacher
	err := r.pool.DB().QueryRowContext(ctx, `SELECT id, name FROM teachers WHERE id = ?`, id).
		Scan(&teacher.ID, &teacher.Name)
	if err != nil {
		return persistence.Teacher{}, r.mapper.MapError(err)
	}
	return teacher, nil
}

// ListTeachers returns all teachers ordered by id.
func (r *TeacherRepository) ListTeachers(ctx context.Context) ([]persistence.Teacher, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `SELECT id, name FROM teachers ORDER BY id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	teachers := []persistence.Teacher{}
	for rows.Next() {
		var teacher persistence.Teacher
		if err := rows.Scan(&teacher.ID, &teacher.Name); err != nil {
			return nil, r.mapper.MapError(err)
		}
		teachers = append(teachers, teacher)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return teachers, nil
}

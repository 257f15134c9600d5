package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/academic-timetable/internal/persistence"
)

// SubjectRepository implements persistence.SubjectRepository using SQLite.
// Seminar and laboratory teachers live in subject_teachers.
type SubjectRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewSubjectRepository creates a new SQLite subject repository.
func NewSubjectRepository(pool *ConnectionPool) *SubjectRepository {
	return &SubjectRepository{pool: pool, mapper: NewErrorMapper()}
}

// CreateSubject inserts the subject and its teacher links in one transaction.
func (r *SubjectRepository) CreateSubject(ctx context.Context, subject persistence.Subject) (persistence.Subject, error) {
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO subjects (name, course_teacher_id, student_year_id) VALUES (?, ?, ?)`,
			subject.Name, subject.CourseTeacherID, subject.StudentYearID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if subject.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read subject id: %w", err)
		}

		for _, teacherID := range subject.SeminarLabTeacherIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO subject_teachers (subject_id, teacher_id) VALUES (?, ?)`,
				subject.ID, teacherID,
			); err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
	if err != nil {
		return persistence.Subject{}, err
	}
	return r.GetSubject(ctx, subject.ID)
}

// GetSubject retrieves a subject with its seminar and laboratory teachers.
func (r *SubjectRepository) GetSubject(ctx context.Context, id int64) (persistence.Subject, error) {
	var subject persistence.Subject
	err := r.pool.DB().QueryRowContext(ctx,
		`SELECT id, name, course_teacher_id, student_year_id FROM subjects WHERE id = ?`, id,
	).Scan(&subject.ID, &subject.Name, &subject.CourseTeacherID, &subject.StudentYearID)
	if err != nil {
		return persistence.Subject{}, r.mapper.MapError(err)
	}

	links, err := r.teacherLinks(ctx, `WHERE subject_id = ?`, id)
	if err != nil {
		return persistence.Subject{}, err
	}
	subject.SeminarLabTeacherIDs = links[id]
	if subject.SeminarLabTeacherIDs == nil {
		subject.SeminarLabTeacherIDs = []int64{}
	}
	return subject, nil
}

// ListSubjects returns all subjects ordered by id.
func (r *SubjectRepository) ListSubjects(ctx context.Context) ([]persistence.Subject, error) {
	rows, err := r.pool.DB().QueryContext(ctx,
		`SELECT id, name, course_teacher_id, student_year_id FROM subjects ORDER BY id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	subjects := []persistence.Subject{}
	for rows.Next() {
		var subject persistence.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.CourseTeacherID, &subject.StudentYearID); err != nil {
			return nil, r.mapper.MapError(err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	rows.Close()

	links, err := r.teacherLinks(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range subjects {
		subjects[i].SeminarLabTeacherIDs = links[subjects[i].ID]
		if subjects[i].SeminarLabTeacherIDs == nil {
			subjects[i].SeminarLabTeacherIDs = []int64{}
		}
	}
	return subjects, nil
}

func (r *SubjectRepository) teacherLinks(ctx context.Context, where string, args ...any) (map[int64][]int64, error) {
	rows, err := r.pool.DB().QueryContext(ctx,
		`SELECT subject_id, teacher_id FROM subject_teachers `+where+` ORDER BY subject_id ASC, teacher_id ASC`, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	links := make(map[int64][]int64)
	for rows.Next() {
		var subjectID, teacherID int64
		if err := rows.Scan(&subjectID, &teacherID); err != nil {
			return nil, r.mapper.MapError(err)
		}
		links[subjectID] = append(links[subjectID], teacherID)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return links, nil
}

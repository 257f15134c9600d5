package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/academic-timetable/internal/persistence"
)

// StudentYearRepository implements persistence.StudentYearRepository using SQLite.
type StudentYearRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewStudentYearRepository creates a new SQLite student year repository.
func NewStudentYearRepository(pool *ConnectionPool) *StudentYearRepository {
	return &StudentYearRepository{pool: pool, mapper: NewErrorMapper()}
}

// CreateStudentYear inserts a student year.
func (r *StudentYearRepository) CreateStudentYear(ctx context.Context, year persistence.StudentYear) (persistence.StudentYear, error) {
	result, err := r.pool.DB().ExecContext(ctx, `INSERT INTO student_years (year) VALUES (?)`, year.Year)
	if err != nil {
		return persistence.StudentYear{}, r.mapper.MapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return persistence.StudentYear{}, fmt.Errorf("failed to read student year id: %w", err)
	}
	year.ID = id
	return year, nil
}

// GetStudentYear retrieves a student year by id.
func (r *StudentYearRepository) GetStudentYear(ctx context.Context, id int64) (persistence.StudentYear, error) {
	var year persistence.StudentYear
	err := r.pool.DB().QueryRowContext(ctx, `SELECT id, year FROM student_years WHERE id = ?`, id).
		Scan(&year.ID, &year.Year)
	if err != nil {
		return persistence.StudentYear{}, r.mapper.MapError(err)
	}
	return year, nil
}

// ListStudentYears returns all student years ordered by year.
func (r *StudentYearRepository) ListStudentYears(ctx context.Context) ([]persistence.StudentYear, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `SELECT id, year FROM student_years ORDER BY year ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	years := []persistence.StudentYear{}
	for rows.Next() {
		var year persistence.StudentYear
		if err := rows.Scan(&year.ID, &year.Year); err != nil {
			return nil, r.mapper.MapError(err)
		}
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return years, nil
}

// StudentGroupRepository implements persistence.StudentGroupRepository using SQLite.
type StudentGroupRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewStudentGroupRepository creates a new SQLite student group repository.
func NewStudentGroupRepository(pool *ConnectionPool) *StudentGroupRepository {
	return &StudentGroupRepository{pool: pool, mapper: NewErrorMapper()}
}

const selectStudentGroup = `
	SELECT g.id, g.student_year_id, g.letter, y.year
	FROM student_groups g
	JOIN student_years y ON y.id = g.student_year_id
`

// CreateStudentGroup inserts a student group and fills in its year.
func (r *StudentGroupRepository) CreateStudentGroup(ctx context.Context, group persistence.StudentGroup) (persistence.StudentGroup, error) {
	result, err := r.pool.DB().ExecContext(ctx,
		`INSERT INTO student_groups (student_year_id, letter) VALUES (?, ?)`,
		group.StudentYearID, group.Letter,
	)
	if err != nil {
		return persistence.StudentGroup{}, r.mapper.MapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return persistence.StudentGroup{}, fmt.Errorf("failed to read student group id: %w", err)
	}
	return r.GetStudentGroup(ctx, id)
}

// GetStudentGroup retrieves a student group by id.
func (r *StudentGroupRepository) GetStudentGroup(ctx context.Context, id int64) (persistence.StudentGroup, error) {
	var group persistence.StudentGroup
	err := r.pool.DB().QueryRowContext(ctx, selectStudentGroup+` WHERE g.id = ?`, id).
		Scan(&group.ID, &group.StudentYearID, &group.Letter, &group.Year)
	if err != nil {
		return persistence.StudentGroup{}, r.mapper.MapError(err)
	}
	return group, nil
}

// ListStudentGroups returns all groups ordered by year then letter.
func (r *StudentGroupRepository) ListStudentGroups(ctx context.Context) ([]persistence.StudentGroup, error) {
	return r.queryGroups(ctx, selectStudentGroup+` ORDER BY y.year ASC, g.letter ASC, g.id ASC`)
}

// FindStudentGroupsByLetter returns the groups with the letter, lowest year first.
func (r *StudentGroupRepository) FindStudentGroupsByLetter(ctx context.Context, letter string) ([]persistence.StudentGroup, error) {
	return r.queryGroups(ctx, selectStudentGroup+` WHERE g.letter = ? ORDER BY y.year ASC, g.id ASC`, letter)
}

func (r *StudentGroupRepository) queryGroups(ctx context.Context, query string, args ...any) ([]persistence.StudentGroup, error) {
	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()
	return scanGroups(rows, r.mapper)
}

func scanGroups(rows *sql.Rows, mapper *ErrorMapper) ([]persistence.StudentGroup, error) {
	groups := []persistence.StudentGroup{}
	for rows.Next() {
		var group persistence.StudentGroup
		if err := rows.Scan(&group.ID, &group.StudentYearID, &group.Letter, &group.Year); err != nil {
			return nil, mapper.MapError(err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, mapper.MapError(err)
	}
	return groups, nil
}

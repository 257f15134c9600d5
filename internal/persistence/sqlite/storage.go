package sqlite

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/example/academic-timetable/internal/logging"
	"github.com/example/academic-timetable/internal/persistence"
	"github.com/example/academic-timetable/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Storage is the SQLite entity store.
type Storage struct {
	*TeacherRepository
	*RoomRepository
	*StudentYearRepository
	*StudentGroupRepository
	*SubjectRepository
	*ScheduleEntryRepository

	pool *ConnectionPool
}

var _ persistence.Store = (*Storage)(nil)

// Open connects to the database described by config. Call Migrate before use.
func Open(config Config) (*Storage, error) {
	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}
	return &Storage{
		TeacherRepository:       NewTeacherRepository(pool),
		RoomRepository:          NewRoomRepository(pool),
		StudentYearRepository:   NewStudentYearRepository(pool),
		StudentGroupRepository:  NewStudentGroupRepository(pool),
		SubjectRepository:       NewSubjectRepository(pool),
		ScheduleEntryRepository: NewScheduleEntryRepository(pool),
		pool:                    pool,
	}, nil
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}

// Ping checks that the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = slog.Default()
	}
	manager := migration.NewManager(
		migration.NewScanner(),
		migration.NewSQLiteExecutor(s.pool.DB()),
		migrationFiles,
		"migrations",
		logger,
	)
	if err := manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

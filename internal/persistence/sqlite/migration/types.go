package migration

import (
	"context"
	"io/fs"
	"time"
)

// Migration is one versioned SQL file.
type Migration struct {
	Version     string // numeric prefix, e.g. "001"
	Description string
	SQL         string
	FilePath    string
	Checksum    string // hex blake2b-256 of SQL
}

// AppliedMigration is a row of schema_migrations.
type AppliedMigration struct {
	Version       string
	AppliedAt     time.Time
	ExecutionTime time.Duration
	Checksum      string
}

// Status summarises the schema state of a database.
type Status struct {
	CurrentVersion    string
	PendingCount      int
	AppliedMigrations []AppliedMigration
	PendingMigrations []Migration
}

// Scanner reads migration files from a file system.
type Scanner interface {
	// ScanMigrations returns every migration under dir, ordered by version.
	ScanMigrations(fsys fs.FS, dir string) ([]Migration, error)
	// ValidateFileName checks the {version}_{description}.sql convention.
	ValidateFileName(filename string) error
}

// Executor applies migrations and tracks them in schema_migrations.
type Executor interface {
	InitializeVersionTable(ctx context.Context) error
	// ApplyMigration runs the migration and records it in one transaction.
	ApplyMigration(ctx context.Context, migration Migration) (time.Duration, error)
	GetAppliedVersions(ctx context.Context) ([]AppliedMigration, error)
}

// Manager orchestrates scanning, verification and execution.
type Manager interface {
	RunMigrations(ctx context.Context) error
	GetPendingMigrations(ctx context.Context) ([]Migration, error)
	GetMigrationStatus(ctx context.Context) (*Status, error)
}

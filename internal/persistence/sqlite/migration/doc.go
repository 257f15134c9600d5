// Package migration applies versioned SQL files to a SQLite database.
//
// Files are named {version}_{description}.sql and read from any fs.FS, so the
// schema can ship embedded in the binary. Each migration runs in its own
// transaction together with its schema_migrations row. The blake2b checksum
// of every applied file is stored and compared on later runs; an edited
// migration stops start-up with ErrChecksumMismatch.
//
//	manager := migration.NewManager(migration.NewScanner(), migration.NewSQLiteExecutor(db), files, ".", logger)
//	if err := manager.RunMigrations(ctx); err != nil {
//		return err
//	}
package migration

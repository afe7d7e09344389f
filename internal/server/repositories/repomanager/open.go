package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the storage selected by driver, applies migrations and
// returns the handle together with its manager. The *sql.DB is nil for the
// memory driver.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	switch driver {
	case DriverMemory:
		return nil, NewMemoryRepositoryManager(), nil
	case DriverPostgres:
		return openSQL(ctx, "pgx", dsn, NewPostgresRepositoryManager(), nil)
	case DriverSQLite:
		return openSQL(ctx, "sqlite", dsn, NewSQLiteRepositoryManager(), func(db *sql.DB) error {
			// one connection: SQLite has a single writer and ":memory:" is per-connection
			db.SetMaxOpenConns(1)
			_, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
			return err
		})
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func openSQL(ctx context.Context, driverName, dsn string, m RepositoryManager, setup func(*sql.DB) error) (*sql.DB, RepositoryManager, error) {
	if dsn == "" {
		return nil, nil, errors.New("database DSN is required")
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if setup != nil {
		if err := setup(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db setup error: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}

	return db, m, nil
}

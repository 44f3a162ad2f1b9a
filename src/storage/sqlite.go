// Package storage persists query outcomes and tool executions for the audit
// log. It is a plain database/sql layer over sqlite with scany reads.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"
	_ "modernc.org/sqlite"
)

// Execer executes SQL statements.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ExecQuerier combines Execer and sqlscan.Querier for callers that both read
// and write.
type ExecQuerier interface {
	Execer
	sqlscan.Querier
}

type DB struct {
	path string
	db   *sql.DB
}

// Open opens (or creates) the audit database at path and applies pending
// migrations. Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	store := &DB{path: path, db: db}
	if err := store.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func (d *DB) DB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

var migrations = []struct {
	version int
	sql     string
}{
	{1, `
	CREATE TABLE sessions (
		id         TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE queries (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL REFERENCES sessions(id),
		question    TEXT NOT NULL,
		response    TEXT NOT NULL DEFAULT '',
		error       TEXT NOT NULL DEFAULT '',
		success     INTEGER NOT NULL,
		rounds      INTEGER NOT NULL,
		tokens_used INTEGER NOT NULL,
		created_at  TIMESTAMP NOT NULL
	);
	CREATE INDEX idx_queries_created_at ON queries(created_at);

	CREATE TABLE tool_executions (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL REFERENCES sessions(id),
		round       INTEGER NOT NULL,
		tool_name   TEXT NOT NULL,
		input       TEXT NOT NULL DEFAULT '',
		output      TEXT NOT NULL DEFAULT '',
		is_error    INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at  TIMESTAMP NOT NULL
	);
	CREATE INDEX idx_tool_executions_session ON tool_executions(session_id);
	`},
}

// runMigrations applies any migration not yet recorded in schema_migrations,
// each in its own transaction.
func (d *DB) runMigrations() error {
	createLedger := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := d.db.Exec(createLedger); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := d.db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.version] {
			continue
		}
		tx, err := d.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if _, err := tx.Exec(migration.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d: %w", migration.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.version, err)
		}
	}
	return nil
}

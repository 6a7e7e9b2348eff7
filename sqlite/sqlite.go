// Package sqlite provides the SQLite-backed labdoc.RuleStore.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	// This prevents immediate "database is locked" errors.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// WAL is ~7x faster for writes and allows concurrent reads during writes.
	// Trade-off: creates additional -wal and -shm files alongside the database.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schemas (
			doc_type TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS field_rules (
			doc_type TEXT NOT NULL REFERENCES schemas(doc_type) ON DELETE CASCADE,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (doc_type, name)
		);

		CREATE TABLE IF NOT EXISTS patterns (
			doc_type TEXT NOT NULL,
			field_name TEXT NOT NULL,
			position INTEGER NOT NULL,
			expr TEXT NOT NULL,
			prefix TEXT NOT NULL DEFAULT '',
			suffix TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (doc_type, field_name) REFERENCES field_rules(doc_type, name) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS examples (
			doc_type TEXT NOT NULL,
			field_name TEXT NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			value TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (doc_type, field_name) REFERENCES field_rules(doc_type, name) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS training_events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			doc_type TEXT NOT NULL,
			field_name TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL,
			example_text TEXT,
			example_value TEXT,
			pattern TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_patterns_field ON patterns(doc_type, field_name);
		CREATE INDEX IF NOT EXISTS idx_examples_field ON examples(doc_type, field_name);
		CREATE INDEX IF NOT EXISTS idx_training_events_doc_type ON training_events(doc_type);
	`

	_, err := db.db.Exec(schema)
	return err
}

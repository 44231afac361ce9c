// Package database stores generated layouts and the outcome of every
// generation attempt. SQLite is the default backend; PostgreSQL is
// available through the same API.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrLayoutNotFound is returned when no layout has the requested id
var ErrLayoutNotFound = errors.New("database: layout not found")

// Database wraps the connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig connects to the backend named by cfg.Driver and runs the
// schema migrations.
func OpenWithConfig(cfg Config) (*Database, error) {
	var dialect Dialect
	var dsn string
	switch DialectType(cfg.Driver) {
	case DialectSQLite, "":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("database: sqlite path is empty")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dialect, dsn = NewDialect(DialectSQLite), cfg.SQLitePath
	case DialectPostgres:
		dialect, dsn = NewDialect(DialectPostgres), cfg.Postgres.DSN()
	default:
		return nil, fmt.Errorf("database: unknown driver %q", cfg.Driver)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if DialectType(cfg.Driver) == DialectPostgres {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the SQL dialect in use
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the schema if it doesn't exist.
func (d *Database) migrate() error {
	id := d.dialect.SerialPrimaryKey()
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS layouts (
			id ` + id + `,
			location_id INTEGER NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			seed BIGINT NOT NULL,
			attempt INTEGER NOT NULL,
			height INTEGER NOT NULL,
			width INTEGER NOT NULL,
			render TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id ` + id + `,
			location_id INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			attempt INTEGER NOT NULL,
			succeeded INTEGER NOT NULL DEFAULT 0,
			stage TEXT NOT NULL DEFAULT '',
			duration_us BIGINT NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_layouts_location_id ON layouts(location_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_location_id ON attempts(location_id)`,
	}
	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// insert runs an INSERT and returns the new row id
func (d *Database) insert(query string, args ...any) (int64, error) {
	q := d.qb.BuildWithReturning(query, "id")
	if !d.dialect.SupportsLastInsertID() {
		var id int64
		if err := d.db.QueryRow(q, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	result, err := d.db.Exec(q, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

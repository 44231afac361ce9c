package database

import "fmt"

// PostgresDialect targets PostgreSQL through lib/pq.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "postgres" }

// Placeholder numbers parameters as $1, $2, ...
func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

func (d *PostgresDialect) SupportsLastInsertID() bool { return false }

func (d *PostgresDialect) ReturningClause(column string) string {
	return fmt.Sprintf(" RETURNING %s", column)
}

// InitStatements is empty; foreign keys are always on in PostgreSQL.
func (d *PostgresDialect) InitStatements() []string { return nil }

func (d *PostgresDialect) SerialPrimaryKey() string { return "BIGSERIAL PRIMARY KEY" }

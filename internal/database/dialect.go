package database

// Dialect covers the SQL differences between SQLite and PostgreSQL that the
// layout store runs into.
type Dialect interface {
	// DriverName is the database/sql driver name
	DriverName() string

	// Placeholder returns the parameter marker for a 1-indexed position
	Placeholder(position int) string

	// SupportsLastInsertID is false when inserts must use RETURNING
	SupportsLastInsertID() bool

	// ReturningClause is appended to INSERTs that need the new id
	ReturningClause(column string) string

	// InitStatements run once after connecting
	InitStatements() []string

	// SerialPrimaryKey is the column definition of an auto-assigned id
	SerialPrimaryKey() string
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect creates a new Dialect for the given type.
func NewDialect(dialectType DialectType) Dialect {
	switch dialectType {
	case DialectPostgres:
		return &PostgresDialect{}
	default:
		return &SQLiteDialect{}
	}
}

package database

// SQLiteDialect targets SQLite through modernc.org/sqlite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite" }

// Placeholder is always "?"
func (d *SQLiteDialect) Placeholder(position int) string { return "?" }

func (d *SQLiteDialect) SupportsLastInsertID() bool { return true }

func (d *SQLiteDialect) ReturningClause(column string) string { return "" }

func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

func (d *SQLiteDialect) SerialPrimaryKey() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }

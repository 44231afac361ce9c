package database

import "strings"

// QueryBuilder rewrites queries written with ? placeholders for a dialect.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build replaces each ? with the dialect's placeholder for its position.
//
//	input:    "SELECT * FROM layouts WHERE location_id = ? AND seed = ?"
//	Postgres: "SELECT * FROM layouts WHERE location_id = $1 AND seed = $2"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}
	var result strings.Builder
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}
	return result.String()
}

// BuildWithReturning also appends a RETURNING clause when the dialect
// cannot report the inserted id otherwise
func (qb *QueryBuilder) BuildWithReturning(query string, column string) string {
	converted := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		converted += qb.dialect.ReturningClause(column)
	}
	return converted
}

package runner

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Query is a statement to explain together with its bind arguments.
type Query struct {
	SQL  string
	Args []any
}

// Statement builds a Query from raw SQL.
func Statement(sql string, args ...any) Query {
	return Query{SQL: sql, Args: args}
}

// FromSqlizer renders a query builder into a Query. Builders for PostgreSQL
// should use sq.Dollar placeholders.
func FromSqlizer(s sq.Sqlizer) (Query, error) {
	if s == nil {
		return Query{}, fmt.Errorf("runner: nil query builder")
	}
	sql, args, err := s.ToSql()
	if err != nil {
		return Query{}, fmt.Errorf("runner: render query: %w", err)
	}
	return Query{SQL: sql, Args: args}, nil
}

package runner

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLExecutor runs EXPLAIN through database/sql, e.g. with the lib/pq driver.
type SQLExecutor struct {
	DB *sql.DB
}

func (e SQLExecutor) ExplainJSON(ctx context.Context, query string, args ...any) ([]byte, error) {
	if e.DB == nil {
		return nil, fmt.Errorf("nil database handle")
	}
	var payload []byte
	if err := e.DB.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return payload, nil
}

package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/pgexplain/internal/runner"
	"github.com/mickamy/pgexplain/test"
)

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.payload
	return nil
}

type fakeQuerier struct {
	row  fakeRow
	sql  string
	args []any
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql = sql
	q.args = args
	return q.row
}

func TestPgxExecutor(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{payload: test.ReadSample(t, "nested_join.json")}}

	results, err := runner.Explain(context.Background(), runner.NewPgxExecutor(q),
		runner.Statement("SELECT * FROM orders JOIN users ON orders.user_id = users.id WHERE users.id = $1", 5),
		runner.Options{Verbose: true})
	require.NoError(t, err)
	require.Equal(t, 4, results[0].Plan.Count())
	require.Equal(t, "EXPLAIN (VERBOSE, FORMAT JSON) SELECT * FROM orders JOIN users ON orders.user_id = users.id WHERE users.id = $1", q.sql)
	require.Equal(t, []any{5}, q.args)
}

func TestPgxExecutorScanError(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}

	_, err := runner.NewPgxExecutor(q).ExplainJSON(context.Background(), "EXPLAIN (FORMAT JSON) SELECT 1")
	require.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestDSNExecutorValidatesDSN(t *testing.T) {
	_, err := runner.DSNExecutor{}.ExplainJSON(context.Background(), "EXPLAIN (FORMAT JSON) SELECT 1")
	require.ErrorContains(t, err, "empty DSN")

	_, err = runner.DSNExecutor{DSN: "postgres://user@localhost:notaport/db"}.ExplainJSON(context.Background(), "EXPLAIN (FORMAT JSON) SELECT 1")
	require.ErrorContains(t, err, "parse dsn")
}

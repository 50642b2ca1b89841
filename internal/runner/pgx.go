package runner

import (
	"context"
	"fmt"
	"strings"

	zerologadapter "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/mickamy/pgexplain/internal/logging"
)

// RowQuerier is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxExecutor runs EXPLAIN on a connection owned by the caller.
type PgxExecutor struct {
	q RowQuerier
}

func NewPgxExecutor(q RowQuerier) *PgxExecutor {
	return &PgxExecutor{q: q}
}

func (e *PgxExecutor) ExplainJSON(ctx context.Context, sql string, args ...any) ([]byte, error) {
	var payload []byte
	if err := e.q.QueryRow(ctx, sql, args...).Scan(&payload); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return payload, nil
}

// DSNExecutor opens a dedicated connection for every call and closes it afterwards.
type DSNExecutor struct {
	DSN string
}

func (e DSNExecutor) ExplainJSON(ctx context.Context, sql string, args ...any) ([]byte, error) {
	if strings.TrimSpace(e.DSN) == "" {
		return nil, fmt.Errorf("empty DSN")
	}
	connConfig, err := pgx.ParseConfig(e.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	connConfig.Tracer = queryTracer()

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer func() {
		_ = conn.Close(context.WithoutCancel(ctx))
	}()

	return NewPgxExecutor(conn).ExplainJSON(ctx, sql, args...)
}

// queryTracer routes pgx query logs into the global zerolog logger at debug level.
func queryTracer() *tracelog.TraceLog {
	l := zerologadapter.NewLogger(logging.Logger,
		zerologadapter.WithoutPGXModule(),
		zerologadapter.WithSubDictionary("pgx"),
		zerologadapter.WithContextFunc(func(ctx context.Context, z zerolog.Context) zerolog.Context {
			if logger := logging.Ctx(ctx); logger != nil {
				return logger.With()
			}
			return z
		}))

	return &tracelog.TraceLog{
		Logger: tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
			if level == tracelog.LogLevelInfo {
				level = tracelog.LogLevelDebug
			}
			l.Log(ctx, level, msg, data)
		}),
		LogLevel: tracelog.LogLevelInfo,
	}
}

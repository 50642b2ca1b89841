package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mickamy/pgexplain/internal/logging"
	"github.com/mickamy/pgexplain/internal/model"
	"github.com/mickamy/pgexplain/internal/parser"
)

// Options customises how EXPLAIN is executed.
type Options struct {
	Analyze  bool
	Buffers  bool
	Verbose  bool
	Settings bool
	Timeout  time.Duration
}

// Executor runs an already wrapped EXPLAIN statement and returns the single
// JSON text value PostgreSQL produces for it.
type Executor interface {
	ExplainJSON(ctx context.Context, sql string, args ...any) ([]byte, error)
}

// Wrap prefixes statement with EXPLAIN and the selected options.
func (o Options) Wrap(statement string) string {
	var opts []string
	if o.Analyze {
		opts = append(opts, "ANALYZE")
	}
	if o.Buffers {
		opts = append(opts, "BUFFERS")
	}
	if o.Verbose {
		opts = append(opts, "VERBOSE")
	}
	if o.Settings {
		opts = append(opts, "SETTINGS")
	}
	opts = append(opts, "FORMAT JSON")
	return fmt.Sprintf("EXPLAIN (%s) %s", strings.Join(opts, ", "), statement)
}

// Fetch wraps q with EXPLAIN and returns the raw JSON document.
func Fetch(ctx context.Context, exec Executor, q Query, opts Options) ([]byte, error) {
	if exec == nil {
		return nil, fmt.Errorf("runner: nil executor")
	}
	statement := normalize(q.SQL)
	if statement == "" {
		return nil, fmt.Errorf("runner: empty sql statement")
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	explainSQL := opts.Wrap(statement)
	logging.Ctx(ctx).Debug().Str("sql", explainSQL).Int("args", len(q.Args)).Msg("running explain")

	payload, err := exec.ExplainJSON(ctx, explainSQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("runner: explain: %w", err)
	}
	return payload, nil
}

// Explain runs EXPLAIN for q through exec and parses the result.
func Explain(ctx context.Context, exec Executor, q Query, opts Options) ([]model.ExplainResult, error) {
	payload, err := Fetch(ctx, exec, q, opts)
	if err != nil {
		return nil, err
	}

	results, err := parser.Parse(payload)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Bytes("explain_json", payload).Msg("failed to parse explain output")
		return nil, fmt.Errorf("runner: parse: %w", err)
	}
	logging.Ctx(ctx).Debug().Int("results", len(results)).Int("nodes", results[0].Plan.Count()).Msg("parsed explain output")
	return results, nil
}

func normalize(statement string) string {
	statement = strings.TrimSpace(statement)
	return strings.TrimSpace(strings.TrimRight(statement, ";"))
}

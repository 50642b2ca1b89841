package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/mickamy/pgexplain/internal/config"
	"github.com/mickamy/pgexplain/internal/logging"
	"github.com/mickamy/pgexplain/internal/parser"
	"github.com/mickamy/pgexplain/internal/render/tree"
	"github.com/mickamy/pgexplain/internal/runner"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute EXPLAIN (FORMAT JSON) for a query and print the plan",
		Example: `  pgexplain run --url postgres://localhost/app --query "SELECT * FROM users" --analyze
  pgexplain run --sql slow.sql --buffers --raw --out plan.json`,
		Args: cobra.NoArgs,
		RunE: runExplain,
	}

	cmd.Flags().String("url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string; defaults to $DATABASE_URL")
	cmd.Flags().String("sql", "", "Path to the SQL file to EXPLAIN")
	cmd.Flags().String("query", "", "Inline SQL string to EXPLAIN")
	cmd.Flags().Bool("analyze", false, "Execute the statement and collect actual timings (EXPLAIN ANALYZE)")
	cmd.Flags().Bool("buffers", false, "Collect buffer usage")
	cmd.Flags().Bool("verbose", false, "Include output column lists and schema-qualified names")
	cmd.Flags().Bool("settings", false, "Include modified planner settings")
	cmd.Flags().String("driver", "pgx", "Database driver: pgx or pq")
	cmd.Flags().Duration("timeout", 0, "Optional execution timeout, e.g. 45s")
	cmd.Flags().String("out", "", "Path to write the output (defaults to stdout)")
	cmd.Flags().Bool("raw", false, "Write the indented EXPLAIN JSON document instead of the plan tree")
	registerRenderFlags(cmd)

	return cmd
}

func runExplain(cmd *cobra.Command, _ []string) error {
	cfg := config.Active()

	connection, _ := cmd.Flags().GetString("url")
	connection = strings.TrimSpace(connection)
	if connection == "" {
		return errors.New("--url is required or set $DATABASE_URL")
	}

	statement, err := readStatement(cmd)
	if err != nil {
		return err
	}

	opts := runner.Options{
		Analyze:  boolFlag(cmd, "analyze", cfg.Explain.Analyze),
		Buffers:  boolFlag(cmd, "buffers", cfg.Explain.Buffers),
		Verbose:  boolFlag(cmd, "verbose", cfg.Explain.Verbose),
		Settings: boolFlag(cmd, "settings", cfg.Explain.Settings),
		Timeout:  cfg.Explain.Timeout.Std(),
	}
	if cmd.Flags().Changed("timeout") {
		opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	driver, _ := cmd.Flags().GetString("driver")
	exec, closeFn, err := openExecutor(driver, connection)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	document, err := runner.Fetch(ctx, exec, runner.Statement(statement), opts)
	if err != nil {
		return err
	}
	results, err := parser.Parse(document)
	if err != nil {
		return fmt.Errorf("parse plan: %w", err)
	}
	logging.Info().Int("results", len(results)).Int("nodes", len(results[0].Nodes())).Bool("analyzed", results[0].Analyzed()).Msg("explain complete")

	var buf bytes.Buffer
	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		pretty, err := indentJSON(document)
		if err != nil {
			return err
		}
		buf.Write(pretty)
	} else {
		err = tree.Render(&buf, results, tree.Options{
			EnableColor: boolFlag(cmd, "color", cfg.Render.Color),
			MaxDepth:    intFlag(cmd, "max-depth", cfg.Render.MaxDepth),
			Verbose:     opts.Verbose,
		})
		if err != nil {
			return err
		}
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	return os.WriteFile(outPath, buf.Bytes(), 0o644)
}

func readStatement(cmd *cobra.Command) (string, error) {
	sqlPath, _ := cmd.Flags().GetString("sql")
	inline, _ := cmd.Flags().GetString("query")

	switch {
	case sqlPath != "" && inline != "":
		return "", errors.New("specify only one of --sql or --query")
	case sqlPath != "":
		data, err := os.ReadFile(sqlPath)
		if err != nil {
			return "", fmt.Errorf("read sql file: %w", err)
		}
		return string(data), nil
	case strings.TrimSpace(inline) != "":
		return inline, nil
	default:
		return "", errors.New("either --sql or --query is required")
	}
}

func openExecutor(driver, connection string) (runner.Executor, func(), error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "pgx":
		return runner.DSNExecutor{DSN: connection}, func() {}, nil
	case "pq", "postgres":
		db, err := sql.Open("postgres", connection)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return runner.SQLExecutor{DB: db}, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown driver %q (use pgx or pq)", driver)
	}
}

func indentJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, fmt.Errorf("indent json: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

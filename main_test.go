package main

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mickamy/pgexplain/internal/parser"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PGEXPLAIN_CONFIG", "")
	t.Setenv("DATABASE_URL", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "", "parse", "--input", "samples/nested_join.json", "--color=false")
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"Hash Join (cost=13.15..37.94 rows=490 width=72)",
		"|   Hash Cond: (orders.user_id = users.id)",
		"|-- Seq Scan on orders (cost=0.00..18.50 rows=850 width=32)",
		"`-- Hash (cost=12.50..12.50 rows=500 width=40)",
		"    `-- Seq Scan on users (cost=0.00..12.50 rows=500 width=40)",
		"",
	}, "\n"), out)
}

func TestParseCommandStdin(t *testing.T) {
	plan := `[{"Plan": {"Node Type": "Result", "Startup Cost": 0, "Total Cost": 0.01, "Plan Rows": 1, "Plan Width": 4}}]`
	out, err := execute(t, plan, "parse", "--input", "-", "--color=false")
	require.NoError(t, err)
	require.Equal(t, "Result (cost=0.00..0.01 rows=1 width=4)\n", out)
}

func TestParseCommandWithConfig(t *testing.T) {
	out, err := execute(t, "", "--config", "samples/config.example.yaml", "parse", "--input", "samples/analyzed.json")
	require.NoError(t, err)
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "Output: id, name")
	require.Contains(t, out, "Parallel Seq Scan on public.users")
	require.NotContains(t, out, "more nodes")
}

func TestParseCommandErrors(t *testing.T) {
	_, err := execute(t, "", "parse")
	require.ErrorContains(t, err, "--input is required")

	_, err = execute(t, `[{"Plan": `, "parse", "--input", "-")
	require.ErrorIs(t, err, parser.ErrMalformedJSON)

	_, err = execute(t, `{"Plan": {}}`, "parse", "--input", "-")
	require.ErrorIs(t, err, parser.ErrUnexpectedShape)

	_, err = execute(t, "", "parse", "--input", "samples/missing.json")
	require.ErrorContains(t, err, "open samples/missing.json")

	_, err = execute(t, "", "--config", "samples/missing.yaml", "parse", "--input", "samples/minimal.json")
	require.ErrorContains(t, err, "read config")
}

func TestRunCommandValidatesFlags(t *testing.T) {
	_, err := execute(t, "", "run", "--query", "SELECT 1")
	require.ErrorContains(t, err, "--url is required")

	_, err = execute(t, "", "run", "--url", "postgres://localhost/app")
	require.ErrorContains(t, err, "either --sql or --query is required")

	_, err = execute(t, "", "run", "--url", "postgres://localhost/app", "--query", "SELECT 1", "--sql", "q.sql")
	require.ErrorContains(t, err, "specify only one of --sql or --query")

	_, err = execute(t, "", "run", "--url", "postgres://localhost/app", "--query", "SELECT 1", "--driver", "mysql")
	require.ErrorContains(t, err, `unknown driver "mysql"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version", "--short")
	require.NoError(t, err)
	require.NotEmpty(t, strings.TrimSpace(out))

	out, err = execute(t, "", "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "pgexplain "))
}

func TestResolveVersion(t *testing.T) {
	info := &debug.BuildInfo{
		GoVersion: "go1.25.4",
		Main:      debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	v, meta := resolveVersion(func() (*debug.BuildInfo, bool) { return info, true })
	require.Equal(t, "v1.2.3", v)
	require.Equal(t, "commit 0123456789ab*, built 2025-01-02T03:04:05Z, go1.25.4", meta)

	v, meta = resolveVersion(func() (*debug.BuildInfo, bool) { return nil, false })
	require.Equal(t, "dev", v)
	require.Empty(t, meta)
}

func TestIndentJSON(t *testing.T) {
	out, err := indentJSON([]byte(`[{"Plan":{"Node Type":"Result"}}]`))
	require.NoError(t, err)
	require.Equal(t, "[\n  {\n    \"Plan\": {\n      \"Node Type\": \"Result\"\n    }\n  }\n]\n", string(out))

	_, err = indentJSON([]byte(`{`))
	require.Error(t, err)
}

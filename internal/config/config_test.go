package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mickamy/pgexplain/test"
)

func TestApplyDefaultAndFile(t *testing.T) {
	Use(Default())
	t.Cleanup(func() { Use(Default()) })

	require.False(t, Active().Explain.Analyze, "expected ANALYZE off by default")
	require.Equal(t, "info", Active().Log.Level)

	root := test.RootPath(t)
	require.NoError(t, Apply(filepath.Join(root, "samples", "config.example.json")))

	cfg := Active()
	require.True(t, cfg.Explain.Analyze)
	require.True(t, cfg.Explain.Buffers)
	require.Equal(t, 45*time.Second, cfg.Explain.Timeout.Std())
	require.False(t, cfg.Render.Color)
	require.Equal(t, 4, cfg.Render.MaxDepth)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Log.Console, "expected unset keys to keep defaults")

	require.NoError(t, Apply(""))
	require.Equal(t, Default(), Active())
}

func TestApplyYAML(t *testing.T) {
	t.Cleanup(func() { Use(Default()) })

	require.NoError(t, Apply(test.SamplePath(t, "config.example.yaml")))

	cfg := Active()
	require.True(t, cfg.Explain.Analyze)
	require.False(t, cfg.Explain.Buffers)
	require.True(t, cfg.Explain.Verbose)
	require.Equal(t, 10*time.Second, cfg.Explain.Timeout.Std())
	require.Equal(t, 2, cfg.Render.MaxDepth)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestApplyMissingFile(t *testing.T) {
	require.Error(t, Apply(filepath.Join(os.TempDir(), "does-not-exist.json")))
}

func TestApplyInvalidDuration(t *testing.T) {
	Use(Default())
	t.Cleanup(func() { Use(Default()) })

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"explain": {"timeout": "soon"}}`), 0o644))

	err := Apply(path)
	require.ErrorContains(t, err, "parse config")
	require.Equal(t, Default(), Active())
}

func TestDurationAcceptsNanoseconds(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`1500000000`)))
	require.Equal(t, 1500*time.Millisecond, d.Std())
}

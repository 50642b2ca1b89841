package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetupFiltersByLevel(t *testing.T) {
	t.Cleanup(func() { SetGlobalLogger(zerolog.Nop()) })

	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "warn", false))

	Info().Msg("hidden")
	Warn().Str("node", "Seq Scan").Msg("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"node":"Seq Scan"`)
	require.Contains(t, buf.String(), `"message":"shown"`)
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	require.Error(t, Setup(&bytes.Buffer{}, "chatty", false))
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]zerolog.Level{
		"":       zerolog.InfoLevel,
		"DEBUG":  zerolog.DebugLevel,
		" warn ": zerolog.WarnLevel,
		"off":    zerolog.Disabled,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}
}

func TestCtxFallsBackToGlobalLogger(t *testing.T) {
	t.Cleanup(func() { SetGlobalLogger(zerolog.Nop()) })

	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "debug", false))

	Ctx(context.Background()).Debug().Msg("from context")
	require.Contains(t, buf.String(), "from context")
}

package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := &Error{
		Kind:  KindInvalidValue,
		Path:  "$[0].Plan.Plans[1]",
		Depth: 1,
		Field: "Plan Rows",
		Msg:   "must not be negative, got -1",
	}
	require.Equal(t,
		`explain json: invalid value at $[0].Plan.Plans[1] (depth 1): field "Plan Rows": must not be negative, got -1`,
		err.Error())

	top := &Error{Kind: KindUnexpectedShape, Path: "$", Depth: -1, Msg: "empty payload"}
	require.Equal(t, "explain json: unexpected shape at $: empty payload", top.Error())
}

func TestErrorMatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("load plan: %w", &Error{Kind: KindUnexpectedShape, Depth: -1})

	require.ErrorIs(t, err, ErrUnexpectedShape)
	require.NotErrorIs(t, err, ErrMalformedJSON)
	require.NotErrorIs(t, err, ErrInvalidValue)
	require.Equal(t, KindUnexpectedShape, KindOf(err))
	require.Equal(t, Kind(0), KindOf(errors.New("other")))
	require.Equal(t, "kind(9)", Kind(9).String())
}

func TestFieldsFirstErrorSticks(t *testing.T) {
	f := newFields(map[string]any{
		"Plan Rows":  json.Number("-1"),
		"Plan Width": "wide",
	}, "$[0].Plan", 0)

	require.Equal(t, int64(0), f.RequiredCount("Plan Rows"))
	require.Equal(t, int64(0), f.RequiredCount("Plan Width"))
	require.Nil(t, f.String("Alias"))

	var perr *Error
	require.True(t, errors.As(f.err, &perr))
	require.Equal(t, KindInvalidValue, perr.Kind)
	require.Equal(t, "Plan Rows", perr.Field)
}

func TestFieldsNullCountsAsAbsent(t *testing.T) {
	f := newFields(map[string]any{"Alias": nil, "Total Cost": nil}, "$[0].Plan", 0)

	require.Nil(t, f.String("Alias"))
	require.NoError(t, f.err)

	f.RequiredFloat("Total Cost")
	require.ErrorIs(t, f.err, ErrUnexpectedShape)
}

func TestFieldsAcceptGoNumbers(t *testing.T) {
	f := newFields(map[string]any{
		"Plan Rows":   float64(42),
		"Plan Width":  int(8),
		"Actual Rows": float32(1.5),
	}, "$", 0)

	require.Equal(t, int64(42), f.RequiredCount("Plan Rows"))
	require.Equal(t, int64(8), f.RequiredCount("Plan Width"))
	require.InDelta(t, 1.5, *f.Float("Actual Rows"), 1e-9)
	require.NoError(t, f.err)
}

func TestFieldsIntPrecision(t *testing.T) {
	f := newFields(map[string]any{
		"Exact": int64(-5361412372816520364),
		"Small": float64(1 << 52),
		"Lossy": float64(-5361412372816520364),
	}, "$[0]", -1)

	require.Equal(t, int64(-5361412372816520364), *f.Int("Exact"))
	require.Equal(t, int64(1<<52), *f.Int("Small"))
	require.NoError(t, f.err)

	require.Nil(t, f.Int("Lossy"))
	require.ErrorIs(t, f.err, ErrInvalidValue)
	require.Contains(t, f.err.Error(), `field "Lossy"`)
}

package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a document could not be parsed.
type Kind int

const (
	// KindMalformedJSON means the input is not valid JSON text.
	KindMalformedJSON Kind = iota + 1
	// KindUnexpectedShape means a container or value has the wrong JSON type,
	// or a required key is missing.
	KindUnexpectedShape
	// KindInvalidValue means a value has the right JSON type but is impossible,
	// such as a negative row count.
	KindInvalidValue
)

var (
	ErrMalformedJSON   = errors.New("malformed json")
	ErrUnexpectedShape = errors.New("unexpected shape")
	ErrInvalidValue    = errors.New("invalid value")
)

func (k Kind) String() string {
	switch k {
	case KindMalformedJSON:
		return ErrMalformedJSON.Error()
	case KindUnexpectedShape:
		return ErrUnexpectedShape.Error()
	case KindInvalidValue:
		return ErrInvalidValue.Error()
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindMalformedJSON:
		return ErrMalformedJSON
	case KindUnexpectedShape:
		return ErrUnexpectedShape
	case KindInvalidValue:
		return ErrInvalidValue
	default:
		return nil
	}
}

// Error is returned for every failed parse. Path is a JSONPath-like location
// ("$[0].Plan.Plans[1]"), Depth the plan-tree depth of the offending node
// (-1 outside a plan node) and Field the key being read, when known.
type Error struct {
	Kind  Kind
	Path  string
	Depth int
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("explain json: ")
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Depth >= 0 {
		_, _ = fmt.Fprintf(&b, " (depth %d)", e.Depth)
	}
	if e.Field != "" {
		_, _ = fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidValue) and friends match on Kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the Kind of err, or 0 when err is not a parse error.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return 0
}

package parser

import (
	"encoding/json"
	"fmt"
	"math"
)

// maxExactFloat is the largest magnitude below which every integer has an
// exact float64 representation.
const maxExactFloat = 1 << 53

// fields reads typed values out of one JSON object. The first failure sticks:
// later reads return zero values and err keeps the original cause.
type fields struct {
	data  map[string]any
	path  string
	depth int
	err   error
}

func newFields(data map[string]any, path string, depth int) *fields {
	return &fields{data: data, path: path, depth: depth}
}

func (f *fields) fail(kind Kind, key, format string, args ...any) {
	if f.err != nil {
		return
	}
	f.err = &Error{
		Kind:  kind,
		Path:  f.path,
		Depth: f.depth,
		Field: key,
		Msg:   fmt.Sprintf(format, args...),
	}
}

// lookup returns the value stored under key; JSON null counts as absent.
func (f *fields) lookup(key string) (any, bool) {
	if f.err != nil {
		return nil, false
	}
	v, ok := f.data[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (f *fields) require(key string) (any, bool) {
	v, ok := f.lookup(key)
	if !ok && f.err == nil {
		f.fail(KindUnexpectedShape, key, "missing required key")
	}
	return v, ok
}

func (f *fields) String(key string) *string {
	v, ok := f.lookup(key)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		f.fail(KindUnexpectedShape, key, "expected string, got %s", jsonType(v))
		return nil
	}
	return &s
}

func (f *fields) RequiredString(key string) string {
	if _, ok := f.require(key); !ok {
		return ""
	}
	s := f.String(key)
	if s == nil {
		return ""
	}
	if *s == "" {
		f.fail(KindInvalidValue, key, "must not be empty")
		return ""
	}
	return *s
}

func (f *fields) Bool(key string) *bool {
	v, ok := f.lookup(key)
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		f.fail(KindUnexpectedShape, key, "expected boolean, got %s", jsonType(v))
		return nil
	}
	return &b
}

// Float reads an optional non-negative number.
func (f *fields) Float(key string) *float64 {
	v, ok := f.lookup(key)
	if !ok {
		return nil
	}
	n, ok := f.number(key, v)
	if !ok {
		return nil
	}
	if n < 0 {
		f.fail(KindInvalidValue, key, "must not be negative, got %v", n)
		return nil
	}
	return &n
}

func (f *fields) RequiredFloat(key string) float64 {
	if _, ok := f.require(key); !ok {
		return 0
	}
	if n := f.Float(key); n != nil {
		return *n
	}
	return 0
}

// Count reads an optional non-negative integer. Integral values written with a
// fraction ("12.00") are accepted.
func (f *fields) Count(key string) *int64 {
	n := f.Int(key)
	if n == nil {
		return nil
	}
	if *n < 0 {
		f.fail(KindInvalidValue, key, "must not be negative, got %d", *n)
		return nil
	}
	return n
}

func (f *fields) RequiredCount(key string) int64 {
	if _, ok := f.require(key); !ok {
		return 0
	}
	if n := f.Count(key); n != nil {
		return *n
	}
	return 0
}

// Int reads an optional signed integer.
func (f *fields) Int(key string) *int64 {
	v, ok := f.lookup(key)
	if !ok {
		return nil
	}
	switch num := v.(type) {
	case json.Number:
		if i, err := num.Int64(); err == nil {
			return &i
		}
	case int64:
		return &num
	case int:
		i := int64(num)
		return &i
	}
	n, ok := f.number(key, v)
	if !ok {
		return nil
	}
	if _, isNum := v.(json.Number); !isNum && math.Abs(n) > maxExactFloat {
		f.fail(KindInvalidValue, key, "integer %v exceeds float64 precision; decode with UseNumber", n)
		return nil
	}
	if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
		f.fail(KindInvalidValue, key, "expected an integer, got %v", n)
		return nil
	}
	i := int64(n)
	return &i
}

func (f *fields) Strings(key string) []string {
	arr := f.Array(key)
	if arr == nil {
		return nil
	}
	out := make([]string, 0, len(arr))
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			f.fail(KindUnexpectedShape, key, "element %d: expected string, got %s", i, jsonType(item))
			return nil
		}
		out = append(out, s)
	}
	return out
}

func (f *fields) Array(key string) []any {
	v, ok := f.lookup(key)
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		f.fail(KindUnexpectedShape, key, "expected array, got %s", jsonType(v))
		return nil
	}
	return arr
}

func (f *fields) Object(key string) map[string]any {
	v, ok := f.lookup(key)
	if !ok {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		f.fail(KindUnexpectedShape, key, "expected object, got %s", jsonType(v))
		return nil
	}
	return obj
}

func (f *fields) RequiredObject(key string) map[string]any {
	if _, ok := f.require(key); !ok {
		return nil
	}
	return f.Object(key)
}

func (f *fields) number(key string, v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		out, err := n.Float64()
		if err != nil {
			f.fail(KindInvalidValue, key, "number %q out of range", n.String())
			return 0, false
		}
		return out, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		f.fail(KindUnexpectedShape, key, "expected number, got %s", jsonType(v))
		return 0, false
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64, float32, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

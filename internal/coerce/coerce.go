// Package coerce converts loosely typed JSON values into the canonical record
// shapes: numbers fall back to zero and empty values fall back to a default.
package coerce

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Number returns v as a float64, or 0 when v is not numeric. Booleans map to
// 0/1, numeric strings are parsed after trimming whitespace, and NaN or
// infinities collapse to 0.
func Number(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		n, err := cast.ToFloat64E(s)
		if err != nil {
			return 0
		}
		f = n
	case []any:
		// A single-element array converts as its element.
		if len(x) == 1 {
			return Number(x[0])
		}
		return 0
	case map[string]any:
		return 0
	default:
		n, err := cast.ToFloat64E(x)
		if err != nil {
			return 0
		}
		f = n
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Int returns Number(v) truncated toward zero.
func Int(v any) int64 {
	f := Number(v)
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}

// Truthy reports whether a decoded JSON value is non-empty: false, 0, NaN,
// "" and null are not.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			// Objects and arrays are always truthy.
			return true
		}
		return f != 0 && !math.IsNaN(f)
	}
}

// StringOr returns def when v is falsy, and the string form of v otherwise.
func StringOr(v any, def string) string {
	if !Truthy(v) {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// String returns the string form of a scalar. Objects and arrays yield "".
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case map[string]any, []any:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

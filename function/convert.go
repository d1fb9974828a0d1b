package function

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"time"
)

// ToString renders any supported value as a string. nil renders as "".
func ToString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case time.Time:
		return s.Format(time.RFC3339)
	case []any:
		out := ""
		for i, e := range s {
			if i > 0 {
				out += ","
			}
			out += ToString(e)
		}
		return out
	default:
		return fmt.Sprint(v)
	}
}

// ToNumber coerces a value to float64. Strings are parsed; anything else
// non-numeric reports false.
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// ToInt coerces a value to int via ToNumber, truncating any fraction.
func ToInt(v any) (int, bool) {
	f, ok := ToNumber(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// ToSlice unwraps a value into []any. Slices and arrays of any element type
// unwrap; scalars report false.
func ToSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// ToPattern returns the value as a compiled pattern, if it is one.
func ToPattern(v any) (*regexp.Regexp, bool) {
	p, ok := v.(*regexp.Regexp)
	return p, ok
}

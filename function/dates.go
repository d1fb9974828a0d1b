package function

import "time"

// Date functions are locale-free: layouts are Go reference layouts and the
// default interchange format is RFC 3339 in UTC.

func registerDateFunctions(r *Registry) {
	r.mustRegister(Entry{Name: "now", MinArgs: 0, MaxArgs: 1, Fn: fnNow})
	r.mustRegister(Entry{Name: "formatDate", MinArgs: 1, MaxArgs: 2, Fn: fnFormatDate})
	r.mustRegister(Entry{Name: "parseDate", MinArgs: 1, MaxArgs: 2, Fn: fnParseDate})
}

// fnNow ignores a leading value argument so it can sit in a value-function
// chain as well as in an argument expression.
func fnNow(args []any) (any, error) {
	return time.Now().UTC(), nil
}

func fnFormatDate(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	t, ok := toTime(args[0])
	if !ok {
		return args[0], nil
	}
	layout := time.RFC3339
	if len(args) == 2 {
		layout = ToString(args[1])
	}
	return t.Format(layout), nil
}

func fnParseDate(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	layout := time.RFC3339
	if len(args) == 2 {
		layout = ToString(args[1])
	}
	t, err := time.Parse(layout, ToString(args[0]))
	if err != nil {
		return args[0], nil
	}
	return t.UTC(), nil
}

// toTime coerces a value to a time: times pass through, numbers are Unix
// seconds, strings parse as RFC 3339.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		return parsed, err == nil
	default:
		if n, ok := ToNumber(v); ok {
			return time.Unix(int64(n), 0).UTC(), true
		}
		return time.Time{}, false
	}
}

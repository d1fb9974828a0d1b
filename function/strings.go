package function

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// unaryString adapts a string transform into an Impl. nil propagates as nil.
func unaryString(fn func(string) string) Impl {
	return func(args []any) (any, error) {
		if args[0] == nil {
			return nil, nil
		}
		return fn(ToString(args[0])), nil
	}
}

func registerStringFunctions(r *Registry) {
	policy := r.Policy()

	r.mustRegister(Entry{
		Name: "capitalize", Aliases: []string{"capitalise"},
		MinArgs: 1, MaxArgs: 1,
		Fn: unaryString(capitalize),
	})
	r.mustRegister(Entry{
		Name: "upper", Aliases: []string{"uppercase"},
		MinArgs: 1, MaxArgs: 1,
		Fn: unaryString(strings.ToUpper),
	})
	r.mustRegister(Entry{
		Name: "lower", Aliases: []string{"lowercase"},
		MinArgs: 1, MaxArgs: 1,
		Fn: unaryString(strings.ToLower),
	})
	r.mustRegister(Entry{
		Name: "trim", MinArgs: 1, MaxArgs: 1,
		Fn: unaryString(strings.TrimSpace),
	})
	r.mustRegister(Entry{
		Name: "ltrim", MinArgs: 1, MaxArgs: 1,
		Fn: unaryString(func(s string) string {
			return strings.TrimLeftFunc(s, unicode.IsSpace)
		}),
	})
	r.mustRegister(Entry{
		Name: "rtrim", MinArgs: 1, MaxArgs: 1,
		Fn: unaryString(func(s string) string {
			return strings.TrimRightFunc(s, unicode.IsSpace)
		}),
	})
	r.mustRegister(Entry{
		Name: "truncate", MinArgs: 2, MaxArgs: 3,
		Fn: fnTruncate,
	})
	r.mustRegister(Entry{
		Name: "split", MinArgs: 2, MaxArgs: 2,
		Fn: fnSplit,
	})
	r.mustRegister(Entry{
		Name: "join", MinArgs: 2, MaxArgs: 2,
		Fn: fnJoin,
	})
	r.mustRegister(Entry{
		Name: "startsWith", MinArgs: 2, MaxArgs: 2,
		Fn: prefixTest(strings.HasPrefix),
	})
	r.mustRegister(Entry{
		Name: "endsWith", MinArgs: 2, MaxArgs: 2,
		Fn: prefixTest(strings.HasSuffix),
	})
	r.mustRegister(Entry{
		Name: "replace", MinArgs: 3, MaxArgs: 3,
		Fn: fnReplace(false),
	})
	r.mustRegister(Entry{
		Name: "replaceFirst", MinArgs: 3, MaxArgs: 3,
		Fn: fnReplace(true),
	})
	r.mustRegister(Entry{
		Name: "format", MinArgs: 1, MaxArgs: -1,
		Fn: fnFormat,
	})
	r.mustRegister(Entry{
		Name: "lpad", Env: Secure, MinArgs: 2, MaxArgs: 3,
		Fn: fnPad(policy, true),
	})
	r.mustRegister(Entry{
		Name: "rpad", Env: Secure, MinArgs: 2, MaxArgs: 3,
		Fn: fnPad(policy, false),
	})
	r.mustRegister(Entry{
		Name: "repeat", Env: Secure, MinArgs: 2, MaxArgs: 2,
		Fn: fnRepeat(policy),
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, width := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[width:]
}

func fnTruncate(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	value := ToString(args[0])
	maxSize, ok := ToInt(args[1])
	if !ok {
		return value, nil
	}
	suffix := ""
	if len(args) == 3 {
		suffix = ToString(args[2])
	}
	if maxSize < 0 || len(value) <= maxSize {
		return value, nil
	}
	return value[:maxSize] + suffix, nil
}

func fnSplit(args []any) (any, error) {
	if args[0] == nil {
		return []any{}, nil
	}
	value := ToString(args[0])
	sep := args[1]
	if sep == nil {
		return []any{value}, nil
	}
	if pat, ok := ToPattern(sep); ok {
		parts := pat.Split(value, -1)
		return toAnySlice(parts), nil
	}
	parts := strings.Split(value, ToString(sep))
	return toAnySlice(parts), nil
}

func fnJoin(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	sep := ToString(args[1])
	items, ok := ToSlice(args[0])
	if !ok {
		return ToString(args[0]), nil
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(ToString(item))
	}
	return b.String(), nil
}

func prefixTest(test func(s, prefix string) bool) Impl {
	return func(args []any) (any, error) {
		if args[0] == nil || args[1] == nil {
			return false, nil
		}
		return test(ToString(args[0]), ToString(args[1])), nil
	}
}

func fnReplace(firstOnly bool) Impl {
	return func(args []any) (any, error) {
		if args[0] == nil {
			return nil, nil
		}
		value := ToString(args[0])
		search := args[1]
		if search == nil {
			return value, nil
		}
		repl := ToString(args[2])

		if pat, ok := ToPattern(search); ok {
			if !firstOnly {
				return pat.ReplaceAllString(value, repl), nil
			}
			loc := pat.FindStringIndex(value)
			if loc == nil {
				return value, nil
			}
			return value[:loc[0]] + repl + value[loc[1]:], nil
		}

		n := -1
		if firstOnly {
			n = 1
		}
		return strings.Replace(value, ToString(search), repl, n), nil
	}
}

func fnFormat(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	return fmt.Sprintf(ToString(args[0]), args[1:]...), nil
}

func fnPad(policy Policy, left bool) Impl {
	return func(args []any) (any, error) {
		if args[0] == nil {
			return nil, nil
		}
		value := ToString(args[0])
		size, ok := ToInt(args[1])
		if !ok {
			return value, nil
		}
		pad := " "
		if len(args) == 3 {
			pad = ToString(args[2])
		}
		if pad == "" {
			return value, nil
		}
		size = policy.ClampPad(size, pad)
		if len(value) >= size {
			return value, nil
		}
		fill := buildPad(pad, size-len(value))
		if left {
			return fill + value, nil
		}
		return value + fill, nil
	}
}

// buildPad repeats pad until it covers exactly n bytes.
func buildPad(pad string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for b.Len() < n {
		b.WriteString(pad)
	}
	return b.String()[:n]
}

func fnRepeat(policy Policy) Impl {
	return func(args []any) (any, error) {
		if args[0] == nil {
			return nil, nil
		}
		value := ToString(args[0])
		times, ok := ToInt(args[1])
		if !ok {
			return value, nil
		}
		if times <= 0 {
			return "", nil
		}
		times = policy.ClampRepeat(times, value)
		return strings.Repeat(value, times), nil
	}
}

func toAnySlice(parts []string) []any {
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

package function

import "sort"

func registerCollectionFunctions(r *Registry) {
	r.mustRegister(Entry{Name: "first", MinArgs: 1, MaxArgs: 1, Fn: fnEnd(false)})
	r.mustRegister(Entry{Name: "last", MinArgs: 1, MaxArgs: 1, Fn: fnEnd(true)})
	r.mustRegister(Entry{Name: "reverse", MinArgs: 1, MaxArgs: 1, Fn: fnReverse})
	r.mustRegister(Entry{Name: "sort", MinArgs: 1, MaxArgs: 1, Fn: fnSort})
	r.mustRegister(Entry{Name: "sum", MinArgs: 1, MaxArgs: 1, Fn: fnSum(false)})
	r.mustRegister(Entry{Name: "average", Aliases: []string{"avg"}, MinArgs: 1, MaxArgs: 1, Fn: fnSum(true)})
}

// fnEnd returns the first or last element of a slice, or the first/last
// character of a string.
func fnEnd(last bool) Impl {
	return func(args []any) (any, error) {
		if args[0] == nil {
			return nil, nil
		}
		if items, ok := ToSlice(args[0]); ok {
			if len(items) == 0 {
				return nil, nil
			}
			if last {
				return items[len(items)-1], nil
			}
			return items[0], nil
		}
		s := ToString(args[0])
		if s == "" {
			return s, nil
		}
		runes := []rune(s)
		if last {
			return string(runes[len(runes)-1]), nil
		}
		return string(runes[0]), nil
	}
}

func fnReverse(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	if items, ok := ToSlice(args[0]); ok {
		out := make([]any, len(items))
		for i, v := range items {
			out[len(items)-1-i] = v
		}
		return out, nil
	}
	runes := []rune(ToString(args[0]))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes), nil
}

// fnSort orders a slice numerically when every element coerces to a number,
// lexically otherwise. The input slice is not modified.
func fnSort(args []any) (any, error) {
	items, ok := ToSlice(args[0])
	if !ok {
		return args[0], nil
	}
	out := make([]any, len(items))
	copy(out, items)

	numeric := true
	for _, v := range out {
		if _, ok := ToNumber(v); !ok {
			numeric = false
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if numeric {
			a, _ := ToNumber(out[i])
			b, _ := ToNumber(out[j])
			return a < b
		}
		return ToString(out[i]) < ToString(out[j])
	})
	return out, nil
}

func fnSum(average bool) Impl {
	return func(args []any) (any, error) {
		items, ok := ToSlice(args[0])
		if !ok {
			return args[0], nil
		}
		total := 0.0
		count := 0
		for _, v := range items {
			if n, ok := ToNumber(v); ok {
				total += n
				count++
			}
		}
		if average {
			if count == 0 {
				return nil, nil
			}
			return total / float64(count), nil
		}
		return total, nil
	}
}

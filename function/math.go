package function

import "math"

// unaryNumber adapts a numeric transform into an Impl. nil propagates; a
// value that cannot be coerced passes through unchanged.
func unaryNumber(fn func(float64) float64) Impl {
	return func(args []any) (any, error) {
		if args[0] == nil {
			return nil, nil
		}
		n, ok := ToNumber(args[0])
		if !ok {
			return args[0], nil
		}
		return fn(n), nil
	}
}

func registerMathFunctions(r *Registry) {
	r.mustRegister(Entry{Name: "abs", MinArgs: 1, MaxArgs: 1, Fn: unaryNumber(math.Abs)})
	r.mustRegister(Entry{Name: "ceil", MinArgs: 1, MaxArgs: 1, Fn: unaryNumber(math.Ceil)})
	r.mustRegister(Entry{Name: "floor", MinArgs: 1, MaxArgs: 1, Fn: unaryNumber(math.Floor)})
	r.mustRegister(Entry{Name: "round", MinArgs: 1, MaxArgs: 1, Fn: unaryNumber(math.Round)})
	r.mustRegister(Entry{Name: "min", MinArgs: 1, MaxArgs: -1, Fn: fnExtreme(func(a, b float64) bool { return b < a })})
	r.mustRegister(Entry{Name: "max", MinArgs: 1, MaxArgs: -1, Fn: fnExtreme(func(a, b float64) bool { return b > a })})
}

// fnExtreme picks an extreme over its arguments; a single slice argument is
// unwrapped first. Non-numeric elements are skipped.
func fnExtreme(better func(current, candidate float64) bool) Impl {
	return func(args []any) (any, error) {
		values := args
		if len(args) == 1 {
			if items, ok := ToSlice(args[0]); ok {
				values = items
			}
		}
		var best float64
		found := false
		for _, v := range values {
			n, ok := ToNumber(v)
			if !ok {
				continue
			}
			if !found || better(best, n) {
				best = n
				found = true
			}
		}
		if !found {
			return nil, nil
		}
		return best, nil
	}
}

package function

import "strings"

func registerMixedFunctions(r *Registry) {
	r.mustRegister(Entry{Name: "size", Aliases: []string{"length"}, MinArgs: 1, MaxArgs: 1, Fn: fnSize})
	r.mustRegister(Entry{Name: "contains", MinArgs: 2, MaxArgs: 2, Fn: fnContains})
}

func fnSize(args []any) (any, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return float64(len(v)), nil
	default:
		if items, ok := ToSlice(v); ok {
			return float64(len(items)), nil
		}
		return float64(len(ToString(v))), nil
	}
}

// fnContains tests substring membership for strings and element membership
// (by stringified equality) for slices.
func fnContains(args []any) (any, error) {
	if args[0] == nil {
		return false, nil
	}
	needle := ToString(args[1])
	if items, ok := ToSlice(args[0]); ok {
		for _, v := range items {
			if ToString(v) == needle {
				return true, nil
			}
		}
		return false, nil
	}
	return strings.Contains(ToString(args[0]), needle), nil
}

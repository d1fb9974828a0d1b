package function

func registerObjectFunctions(r *Registry) {
	r.mustRegister(Entry{Name: "defaultTo", Aliases: []string{"coalesce"}, MinArgs: 2, MaxArgs: -1, Fn: fnDefaultTo})
	r.mustRegister(Entry{Name: "toString", MinArgs: 1, MaxArgs: 1, Fn: fnToString})
	r.mustRegister(Entry{Name: "toNumber", MinArgs: 1, MaxArgs: 1, Fn: fnToNumber})
}

// fnDefaultTo returns the first argument that is neither nil nor the empty
// string.
func fnDefaultTo(args []any) (any, error) {
	for _, v := range args {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return v, nil
	}
	return nil, nil
}

func fnToString(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	return ToString(args[0]), nil
}

func fnToNumber(args []any) (any, error) {
	if args[0] == nil {
		return nil, nil
	}
	n, ok := ToNumber(args[0])
	if !ok {
		return args[0], nil
	}
	return n, nil
}

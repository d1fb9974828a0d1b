package function

// Pipeline applies ordered function-call chains to matched keys and values.
// It is stateless apart from the registry reference and safe for concurrent
// use across traversals.
//
// A call that cannot be completed (unknown name at run time, arity mismatch,
// argument evaluation failure, returned error, or a panic inside the
// implementation) keeps the pre-call value and moves on to the next call.
// One malformed transform never aborts a field-selection pass.
type Pipeline struct {
	registry *Registry
}

// NewPipeline creates a pipeline backed by the given registry.
func NewPipeline(r *Registry) *Pipeline {
	return &Pipeline{registry: r}
}

// ApplyKey runs the key-function chain over a field key.
func (p *Pipeline) ApplyKey(key string, calls []*Node, vars Variables) string {
	out := p.ApplyValue(key, calls, vars)
	if out == nil {
		return key
	}
	return ToString(out)
}

// ApplyValue runs the value-function chain over a field value.
func (p *Pipeline) ApplyValue(value any, calls []*Node, vars Variables) any {
	current := value
	for _, call := range calls {
		out, err := p.invoke(call, []any{current}, vars)
		if err != nil {
			continue
		}
		current = out
	}
	return current
}

// invoke evaluates one call. prefix holds implicit leading arguments (the
// current value for key/value chains, empty for nested argument calls).
func (p *Pipeline) invoke(call *Node, prefix []any, vars Variables) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, recoveredError{r}
		}
	}()

	entry, err := p.registry.Resolve(call.Name())
	if err != nil {
		return nil, err
	}

	args := make([]any, 0, len(prefix)+len(call.Args()))
	args = append(args, prefix...)
	for _, a := range call.Args() {
		v, err := p.evalArg(a, vars)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	if len(args) < entry.MinArgs {
		return nil, arityError{entry.Name, len(args)}
	}
	if entry.MaxArgs >= 0 && len(args) > entry.MaxArgs {
		return nil, arityError{entry.Name, len(args)}
	}

	return entry.Fn(args)
}

func (p *Pipeline) evalArg(a Arg, vars Variables) (any, error) {
	switch a.kind {
	case ArgLiteral:
		return a.literal, nil
	case ArgVariable:
		if vars == nil {
			return nil, unboundVariableError{a.varName}
		}
		v, ok := vars.Lookup(a.varName)
		if !ok {
			return nil, unboundVariableError{a.varName}
		}
		return v, nil
	case ArgCall:
		return p.invoke(a.call, nil, vars)
	default:
		return nil, nil
	}
}

type recoveredError struct{ cause any }

func (e recoveredError) Error() string { return ToString(e.cause) }

type arityError struct {
	name string
	got  int
}

func (e arityError) Error() string {
	return "function " + e.name + ": wrong argument count"
}

type unboundVariableError struct{ name string }

func (e unboundVariableError) Error() string {
	return "unbound variable $" + e.name
}

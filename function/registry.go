package function

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownFunction reports a function name that no registry entry or alias
// covers. Surfaced when a filter expression is bound, never during traversal.
var ErrUnknownFunction = errors.New("unknown function")

// Impl is a function implementation. For key and value functions the current
// key/value is prepended as args[0]; argument expressions follow in order.
// Implementations must be pure: no shared state between invocations.
type Impl func(args []any) (any, error)

// Entry describes one registered function.
//
// Env marks functions whose cost scales with caller-controlled arguments:
// entries tagged Secure consult the registry policy and clamp their growth
// arguments when the active environment is Secure. Entries tagged Normal run
// unmodified everywhere.
type Entry struct {
	Name    string
	Aliases []string
	Env     Environment
	MinArgs int
	MaxArgs int // -1 for variadic
	Fn      Impl
}

// Registry resolves function names (and aliases) to implementations. The
// active environment is fixed at construction and is process-wide
// configuration: register everything before the first traversal, after which
// the registry is read-only and safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	policy  Policy
	entries map[string]*Entry
}

// NewRegistry creates an empty registry bound to the given environment.
func NewRegistry(env Environment) *Registry {
	return &Registry{
		policy:  NewPolicy(env),
		entries: make(map[string]*Entry),
	}
}

// Environment returns the active execution environment.
func (r *Registry) Environment() Environment {
	return r.policy.Environment
}

// Policy returns the resource policy growth functions consult.
func (r *Registry) Policy() Policy {
	return r.policy
}

// Register adds an entry under its name and every alias.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" {
		return errors.New("register: empty function name")
	}
	if e.Fn == nil {
		return fmt.Errorf("register %q: nil implementation", e.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := e
	for _, key := range append([]string{e.Name}, e.Aliases...) {
		if _, exists := r.entries[key]; exists {
			return fmt.Errorf("register %q: name already taken", key)
		}
		r.entries[key] = &entry
	}
	return nil
}

func (r *Registry) mustRegister(e Entry) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Resolve looks up a function by name or alias.
func (r *Registry) Resolve(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return e, nil
}

// DefaultRegistry returns a registry pre-loaded with the built-in function
// library, bound to the given environment.
func DefaultRegistry(env Environment) *Registry {
	r := NewRegistry(env)
	registerStringFunctions(r)
	registerMathFunctions(r)
	registerCollectionFunctions(r)
	registerMixedFunctions(r)
	registerObjectFunctions(r)
	registerDateFunctions(r)
	return r
}

// Package squiggly prunes and transforms JSON documents with squiggly
// field-selection filters, e.g. id,name,address{city,zip}.
//
// The heavy lifting lives in the sub-packages: filter (node model and
// matching engine), function (transform registry and pipeline), parser
// (expression syntax) and jsonfilter (the fastjson document walker). This
// package ties them together behind a parsed-filter cache.
package squiggly

import (
	"sync"

	"github.com/fossabot/squiggly/filter"
	"github.com/fossabot/squiggly/function"
	"github.com/fossabot/squiggly/jsonfilter"
	"github.com/fossabot/squiggly/parser"
)

// Filter is a parsed, immutable filter expression bound to a function
// registry. Safe for concurrent use.
type Filter struct {
	nodes   []*filter.Node
	applier *jsonfilter.Applier
}

// Nodes returns the root-level active filter set.
func (f *Filter) Nodes() []*filter.Node { return f.nodes }

// Apply filters a JSON document.
func (f *Filter) Apply(doc []byte) ([]byte, error) {
	return f.applier.Apply(f.nodes, doc, nil)
}

// ApplyWith filters a JSON document with variable bindings for $name
// references.
func (f *Filter) ApplyWith(doc []byte, vars function.Variables) ([]byte, error) {
	return f.applier.Apply(f.nodes, doc, vars)
}

type cacheKey struct {
	expr string
	env  function.Environment
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[cacheKey]*Filter)

	registryMu sync.Mutex
	registries = make(map[function.Environment]*function.Registry)
)

// Registry returns the shared default registry for an environment. The
// environment selection is process-wide: pick it before the first traversal.
func Registry(env function.Environment) *function.Registry {
	registryMu.Lock()
	defer registryMu.Unlock()

	r, ok := registries[env]
	if !ok {
		r = function.DefaultRegistry(env)
		registries[env] = r
	}
	return r
}

// Parse parses a filter expression under the Normal environment. Parsed
// filters are cached: the same expression returns the same *Filter.
func Parse(expr string) (*Filter, error) {
	return parseEnv(expr, function.Normal)
}

// ParseSecure parses a filter expression under the Secure environment, for
// filters that originate from untrusted input.
func ParseSecure(expr string) (*Filter, error) {
	return parseEnv(expr, function.Secure)
}

// MustParse is Parse that panics on error, for expressions known at compile
// time.
func MustParse(expr string) *Filter {
	f, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return f
}

func parseEnv(expr string, env function.Environment) (*Filter, error) {
	key := cacheKey{expr: expr, env: env}

	cacheMu.RLock()
	f, ok := cache[key]
	cacheMu.RUnlock()
	if ok {
		return f, nil
	}

	registry := Registry(env)
	nodes, err := parser.Parse(expr, registry)
	if err != nil {
		return nil, err
	}
	f = &Filter{nodes: nodes, applier: jsonfilter.New(registry)}

	cacheMu.Lock()
	if cached, ok := cache[key]; ok {
		f = cached
	} else {
		cache[key] = f
	}
	cacheMu.Unlock()

	return f, nil
}

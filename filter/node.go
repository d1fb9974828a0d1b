package filter

import "github.com/fossabot/squiggly/function"

// RootName is the reserved literal carried by the synthetic root node. The
// parser never emits it as a user-facing match target.
const RootName = "root"

// Modifier bits. Raw bits stay inside the construction boundary; callers see
// only the named accessors.
const (
	modDeep    = 0x00000001
	modNegated = 0x00000002
	modNested  = 0x00000004
)

// Origin is the source position a node was parsed from. Diagnostics only; it
// never affects matching.
type Origin struct {
	Line   int
	Column int
}

// Node is one component of a filter expression tree. Nodes are immutable:
// structural changes go through WithName/WithChildren, which return new
// nodes sharing every unchanged field.
type Node struct {
	origin         Origin
	name           Name
	modifiers      int
	children       []*Node
	keyFunctions   []*function.Node
	valueFunctions []*function.Node
	minDepth       *int
	maxDepth       *int
	stage          int
}

// Config collects the pieces of a node for construction. Nil slices are
// normalized to empty: a node's child and function lists are never nil.
type Config struct {
	Origin         Origin
	Name           Name
	Deep           bool
	Negated        bool
	Nested         bool
	Children       []*Node
	KeyFunctions   []*function.Node
	ValueFunctions []*function.Node
	MinDepth       *int
	MaxDepth       *int
	Stage          int
}

// New builds an immutable node from cfg.
func New(cfg Config) *Node {
	mod := 0
	if cfg.Deep {
		mod |= modDeep
	}
	if cfg.Negated {
		mod |= modNegated
	}
	if cfg.Nested {
		mod |= modNested
	}

	children := cfg.Children
	if children == nil {
		children = []*Node{}
	}
	keyFns := cfg.KeyFunctions
	if keyFns == nil {
		keyFns = []*function.Node{}
	}
	valueFns := cfg.ValueFunctions
	if valueFns == nil {
		valueFns = []*function.Node{}
	}

	return &Node{
		origin:         cfg.Origin,
		name:           cfg.Name,
		modifiers:      mod,
		children:       children,
		keyFunctions:   keyFns,
		valueFunctions: valueFns,
		minDepth:       cfg.MinDepth,
		maxDepth:       cfg.MaxDepth,
		stage:          cfg.Stage,
	}
}

// Named creates a plain, non-nested node with the given name.
func Named(name Name) *Node {
	return New(Config{Name: name})
}

// NamedNested creates a nested node with zero children, i.e. the explicit
// "prune all children" form written as name{}.
func NamedNested(name Name) *Node {
	return New(Config{Name: name, Nested: true})
}

// Root returns a synthetic root node carrying the reserved root literal.
func Root() *Node {
	name, err := NewExactName(RootName)
	if err != nil {
		panic(err)
	}
	return Named(name)
}

func (n *Node) Origin() Origin { return n.origin }

// Name returns the declared name literal.
func (n *Node) Name() string { return n.name.Name() }

// Matches reports whether candidate matches this node's name.
func (n *Node) Matches(candidate string, vars Variables) bool {
	return n.name.Matches(candidate, vars)
}

// Specificity indicates how specific the name is. Higher is more specific.
func (n *Node) Specificity() int { return n.name.Specificity() }

// Compare orders nodes by specificity alone, ascending. Stage is tracked on
// the node but deliberately excluded from ordering.
func (n *Node) Compare(other *Node) int {
	a, b := n.Specificity(), other.Specificity()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Children returns the child nodes. Never nil; callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// KeyFunctions returns the function calls applied to a matched field's key.
func (n *Node) KeyFunctions() []*function.Node { return n.keyFunctions }

// ValueFunctions returns the function calls applied to a matched field's
// value.
func (n *Node) ValueFunctions() []*function.Node { return n.valueFunctions }

// Stage is the declared evaluation phase for multi-stage filter composition.
func (n *Node) Stage() int { return n.stage }

// IsNested reports whether the node was followed by a sub-filter. Given
// id,foo{bar}, the foo node is nested; bar is not.
func (n *Node) IsNested() bool { return n.modifiers&modNested != 0 }

// IsEmptyNested reports whether the node explicitly specified no children,
// e.g. assignee{}.
func (n *Node) IsEmptyNested() bool { return n.IsNested() && len(n.children) == 0 }

// IsNegated reports whether the node started with '-'.
func (n *Node) IsNegated() bool { return n.modifiers&modNegated != 0 }

// IsDeep reports whether the node applies at arbitrary depth rather than
// only at its declared position.
func (n *Node) IsDeep() bool { return n.modifiers&modDeep != 0 }

// IsAnyShallow reports whether the node's name is *.
func (n *Node) IsAnyShallow() bool { return n.name.Name() == AnyShallowID }

// IsAnyDeep reports whether the node's name is **.
func (n *Node) IsAnyDeep() bool { return n.name.Name() == AnyDeepID }

// IsVariable reports whether the node's name is a variable reference.
func (n *Node) IsVariable() bool { return n.name.Kind() == NameVariable }

// MinDepth returns the inclusive lower depth bound, if declared.
func (n *Node) MinDepth() (int, bool) {
	if n.minDepth == nil {
		return 0, false
	}
	return *n.minDepth, true
}

// MaxDepth returns the exclusive upper depth bound, if declared.
func (n *Node) MaxDepth() (int, bool) {
	if n.maxDepth == nil {
		return 0, false
	}
	return *n.maxDepth, true
}

// AvailableAtDepth reports whether a deep node may apply at the given depth.
// Non-deep nodes are never available this way. maxDepth is exclusive: with
// maxDepth 3 the node applies at depths 0, 1 and 2.
func (n *Node) AvailableAtDepth(depth int) bool {
	if !n.IsDeep() {
		return false
	}
	if n.minDepth != nil && depth < *n.minDepth {
		return false
	}
	if n.maxDepth != nil && depth >= *n.maxDepth {
		return false
	}
	return true
}

// WithName returns a copy of the node carrying a different name.
func (n *Node) WithName(name Name) *Node {
	out := *n
	out.name = name
	return &out
}

// WithChildren returns a copy of the node carrying different children.
func (n *Node) WithChildren(children []*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	out := *n
	out.children = children
	return &out
}

package filter

// Action is the outcome of matching one candidate field against an active
// filter set.
type Action int

const (
	// Exclude drops the field.
	Exclude Action = iota
	// IncludeLeaf keeps the field without recursing into its children.
	IncludeLeaf
	// IncludeWithChildren keeps the field and recurses using the decision's
	// Children as the next active set, at depth+1.
	IncludeWithChildren
)

func (a Action) String() string {
	switch a {
	case Exclude:
		return "exclude"
	case IncludeLeaf:
		return "include-leaf"
	case IncludeWithChildren:
		return "include-with-children"
	default:
		return "unknown"
	}
}

// Decision is the matching engine's answer for one field. Node is the
// winning filter node (nil when excluded); Children is the next active set
// when Action is IncludeWithChildren.
type Decision struct {
	Action   Action
	Node     *Node
	Children []*Node
}

// Match decides whether the candidate field at the given traversal depth is
// included by the active filter set. Root fields are at depth 0.
//
// A node applies when its name matches the candidate; deep nodes must
// additionally be available at the current depth. Among applicable nodes the
// highest specificity wins, declaration order breaking ties. A negated
// applicable node vetoes inclusion whenever its specificity is at least the
// best non-negated one: a negated exact match must beat a positive wildcard.
//
// Match holds no state and is safe for concurrent use over shared node
// trees.
func Match(nodes []*Node, candidate string, depth int, vars Variables) Decision {
	var selected *Node
	negatedSpecificity := -1

	for _, n := range nodes {
		if !n.Matches(candidate, vars) {
			continue
		}
		if n.IsDeep() && !n.AvailableAtDepth(depth) {
			continue
		}
		if n.IsNegated() {
			if n.Specificity() > negatedSpecificity {
				negatedSpecificity = n.Specificity()
			}
			continue
		}
		// First declared wins on equal specificity.
		if selected == nil || n.Specificity() > selected.Specificity() {
			selected = n
		}
	}

	if selected == nil || negatedSpecificity >= selected.Specificity() {
		return Decision{Action: Exclude}
	}

	switch {
	case selected.IsEmptyNested():
		// name{} includes the field but explicitly prunes its children.
		return Decision{Action: IncludeLeaf, Node: selected}
	case len(selected.Children()) > 0:
		return Decision{Action: IncludeWithChildren, Node: selected, Children: selected.Children()}
	case selected.IsDeep():
		// A childless deep node recurses into itself: the active set is
		// carried forward unchanged until AvailableAtDepth turns false or
		// the data runs out of children.
		return Decision{Action: IncludeWithChildren, Node: selected, Children: nodes}
	default:
		return Decision{Action: IncludeLeaf, Node: selected}
	}
}

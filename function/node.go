package function

// Variables resolves variable references that appear in filter expressions,
// both as name segments and as function arguments. Implementations must be
// safe for concurrent reads.
type Variables interface {
	Lookup(name string) (string, bool)
}

// VarMap is a map-backed Variables implementation.
type VarMap map[string]string

func (m VarMap) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// ArgKind discriminates the argument variants of a function call.
type ArgKind int

const (
	ArgLiteral ArgKind = iota
	ArgVariable
	ArgCall
)

// Arg is one argument of a function call: a literal value, a variable
// reference, or a nested call evaluated before the outer invocation.
type Arg struct {
	kind    ArgKind
	literal any
	varName string
	call    *Node
}

// LiteralArg wraps a literal value.
func LiteralArg(v any) Arg {
	return Arg{kind: ArgLiteral, literal: v}
}

// VariableArg references a variable resolved at invocation time.
func VariableArg(name string) Arg {
	return Arg{kind: ArgVariable, varName: name}
}

// CallArg nests a function call as an argument expression.
func CallArg(n *Node) Arg {
	return Arg{kind: ArgCall, call: n}
}

func (a Arg) Kind() ArgKind { return a.kind }

// Node is a single function call inside a filter expression: a canonical
// (alias-resolved) function name plus ordered arguments. Nodes are built by
// the parser and never mutated afterwards.
type Node struct {
	name string
	args []Arg
}

// NewNode creates a function call node.
func NewNode(name string, args ...Arg) *Node {
	if args == nil {
		args = []Arg{}
	}
	return &Node{name: name, args: args}
}

func (n *Node) Name() string { return n.name }

func (n *Node) Args() []Arg { return n.args }

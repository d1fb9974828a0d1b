package function

import (
	"errors"
	"testing"
)

func testPipeline(t *testing.T, env Environment) *Pipeline {
	t.Helper()
	return NewPipeline(DefaultRegistry(env))
}

func TestApplyValueChain(t *testing.T) {
	p := testPipeline(t, Normal)

	calls := []*Node{
		NewNode("trim"),
		NewNode("upper"),
	}
	got := p.ApplyValue("  hello  ", calls, nil)
	if got != "HELLO" {
		t.Errorf("trim|upper = %v, want %q", got, "HELLO")
	}
}

func TestApplyValueRecoversFromError(t *testing.T) {
	r := DefaultRegistry(Normal)
	r.mustRegister(Entry{
		Name: "explode", MinArgs: 1, MaxArgs: 1,
		Fn: func(args []any) (any, error) { return nil, errors.New("boom") },
	})
	p := NewPipeline(r)

	got := p.ApplyValue("value", []*Node{NewNode("explode")}, nil)
	if got != "value" {
		t.Errorf("failing transform must keep the pre-call value, got %v", got)
	}

	// Later calls in the chain still run.
	got = p.ApplyValue("value", []*Node{NewNode("explode"), NewNode("upper")}, nil)
	if got != "VALUE" {
		t.Errorf("chain after failure = %v, want %q", got, "VALUE")
	}
}

func TestApplyValueRecoversFromPanic(t *testing.T) {
	r := DefaultRegistry(Normal)
	r.mustRegister(Entry{
		Name: "crash", MinArgs: 1, MaxArgs: 1,
		Fn: func(args []any) (any, error) { panic("unreachable") },
	})
	p := NewPipeline(r)

	got := p.ApplyValue(42.0, []*Node{NewNode("crash")}, nil)
	if got != 42.0 {
		t.Errorf("panicking transform must keep the pre-call value, got %v", got)
	}
}

func TestApplyValueUnknownFunctionKeepsValue(t *testing.T) {
	p := testPipeline(t, Normal)
	got := p.ApplyValue("x", []*Node{NewNode("no-such-fn")}, nil)
	if got != "x" {
		t.Errorf("unknown function at run time must keep the value, got %v", got)
	}
}

func TestApplyValueArityMismatchKeepsValue(t *testing.T) {
	p := testPipeline(t, Normal)
	// truncate needs a size argument; with only the implicit value the call
	// is under arity and must be skipped.
	got := p.ApplyValue("abcdef", []*Node{NewNode("truncate")}, nil)
	if got != "abcdef" {
		t.Errorf("under-arity call must keep the value, got %v", got)
	}
}

func TestArgumentEvaluation(t *testing.T) {
	p := testPipeline(t, Normal)

	t.Run("literal", func(t *testing.T) {
		call := NewNode("truncate", LiteralArg(3.0))
		if got := p.ApplyValue("abcdef", []*Node{call}, nil); got != "abc" {
			t.Errorf("truncate(3) = %v, want %q", got, "abc")
		}
	})

	t.Run("variable", func(t *testing.T) {
		call := NewNode("truncate", VariableArg("n"))
		vars := VarMap{"n": "2"}
		if got := p.ApplyValue("abcdef", []*Node{call}, vars); got != "ab" {
			t.Errorf("truncate($n) = %v, want %q", got, "ab")
		}
	})

	t.Run("unbound variable keeps value", func(t *testing.T) {
		call := NewNode("truncate", VariableArg("missing"))
		if got := p.ApplyValue("abcdef", []*Node{call}, nil); got != "abcdef" {
			t.Errorf("unbound variable must keep the value, got %v", got)
		}
	})

	t.Run("nested call", func(t *testing.T) {
		// defaultTo(value, upper("fallback")) — the inner call is evaluated
		// without an implicit leading value.
		inner := NewNode("upper", LiteralArg("fallback"))
		call := NewNode("defaultTo", CallArg(inner))
		if got := p.ApplyValue(nil, []*Node{call}, nil); got != "FALLBACK" {
			t.Errorf("nested call argument = %v, want %q", got, "FALLBACK")
		}
	})
}

func TestApplyKey(t *testing.T) {
	p := testPipeline(t, Normal)
	key := p.ApplyKey("first_name", []*Node{NewNode("replace", LiteralArg("_"), LiteralArg("-"))}, nil)
	if key != "first-name" {
		t.Errorf("ApplyKey = %q, want %q", key, "first-name")
	}

	// A chain that nils out the key falls back to the original.
	r := DefaultRegistry(Normal)
	r.mustRegister(Entry{
		Name: "void", MinArgs: 1, MaxArgs: 1,
		Fn: func(args []any) (any, error) { return nil, nil },
	})
	key = NewPipeline(r).ApplyKey("id", []*Node{NewNode("void")}, nil)
	if key != "id" {
		t.Errorf("nil key result must fall back to the original, got %q", key)
	}
}

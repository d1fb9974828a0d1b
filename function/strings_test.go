package function

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

// call resolves and invokes a built-in directly, failing the test on any
// resolution or invocation error.
func call(t *testing.T, r *Registry, name string, args ...any) any {
	t.Helper()
	e, err := r.Resolve(name)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", name, err)
	}
	out, err := e.Fn(args)
	if err != nil {
		t.Fatalf("%s(%v): %v", name, args, err)
	}
	return out
}

func TestStringTransforms(t *testing.T) {
	r := DefaultRegistry(Normal)

	tests := []struct {
		fn   string
		args []any
		want any
	}{
		{"capitalize", []any{"name"}, "Name"},
		{"capitalize", []any{""}, ""},
		{"upper", []any{"abc"}, "ABC"},
		{"lower", []any{"ABC"}, "abc"},
		{"trim", []any{"  x  "}, "x"},
		{"ltrim", []any{"  x  "}, "x  "},
		{"rtrim", []any{"  x  "}, "  x"},
		{"truncate", []any{"abcdef", 4.0}, "abcd"},
		{"truncate", []any{"abcdef", 4.0, "..."}, "abcd..."},
		{"truncate", []any{"ab", 4.0, "..."}, "ab"},
		{"startsWith", []any{"filename.txt", "file"}, true},
		{"startsWith", []any{nil, "file"}, false},
		{"endsWith", []any{"filename.txt", ".txt"}, true},
		{"endsWith", []any{"filename.txt", ".json"}, false},
		{"replace", []any{"a-b-c", "-", "."}, "a.b.c"},
		{"replaceFirst", []any{"a-b-c", "-", "."}, "a.b-c"},
		{"replace", []any{"a1b22c", regexp.MustCompile(`\d+`), "#"}, "a#b#c"},
		{"replaceFirst", []any{"a1b22c", regexp.MustCompile(`\d+`), "#"}, "a#b22c"},
		{"format", []any{"%s-%d", "a", 3}, "a-3"},
		{"repeat", []any{"ab", 3.0}, "ababab"},
		{"repeat", []any{"ab", 0.0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			if got := call(t, r, tt.fn, tt.args...); got != tt.want {
				t.Errorf("%s(%v) = %v, want %v", tt.fn, tt.args, got, tt.want)
			}
		})
	}
}

func TestNullPropagation(t *testing.T) {
	r := DefaultRegistry(Normal)
	for _, fn := range []string{"capitalize", "upper", "lower", "trim", "join", "repeat"} {
		t.Run(fn, func(t *testing.T) {
			args := []any{nil}
			if fn == "join" || fn == "repeat" {
				args = append(args, "x")
			}
			if got := call(t, r, fn, args...); got != nil {
				t.Errorf("%s(nil) = %v, want nil", fn, got)
			}
		})
	}
}

func TestSplitJoinRoundTrip(t *testing.T) {
	r := DefaultRegistry(Normal)
	list := []any{"a", "b", "c"}

	joined := call(t, r, "join", list, ",")
	if joined != "a,b,c" {
		t.Fatalf("join = %v, want %q", joined, "a,b,c")
	}
	split := call(t, r, "split", joined, ",")
	if !reflect.DeepEqual(split, list) {
		t.Errorf("split(join(list)) = %v, want %v", split, list)
	}
}

func TestSplitPatternSeparator(t *testing.T) {
	r := DefaultRegistry(Normal)
	got := call(t, r, "split", "a1b22c", regexp.MustCompile(`\d+`))
	want := []any{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("split with pattern = %v, want %v", got, want)
	}
}

func TestJoinScalarInput(t *testing.T) {
	r := DefaultRegistry(Normal)
	if got := call(t, r, "join", "solo", ","); got != "solo" {
		t.Errorf("join(scalar) = %v, want %q", got, "solo")
	}
	if got := call(t, r, "join", []string{"x", "y"}, "-"); got != "x-y" {
		t.Errorf("join([]string) = %v, want %q", got, "x-y")
	}
}

func TestPadClampedByBudget(t *testing.T) {
	// Pads honor the growth budget in every environment.
	for _, env := range []Environment{Normal, Secure} {
		t.Run(env.String(), func(t *testing.T) {
			r := DefaultRegistry(env)
			maxSize := DefaultGrowthBudget / 2 // single-byte pad

			out := ToString(call(t, r, "lpad", "x", 1000000.0))
			if len(out) > maxSize {
				t.Errorf("lpad length %d exceeds computed maximum %d", len(out), maxSize)
			}
			out = ToString(call(t, r, "rpad", "x", 1000000.0, "ab"))
			if len(out) > DefaultGrowthBudget/4+1 {
				t.Errorf("rpad with 2-byte pad: length %d exceeds budget", len(out))
			}
		})
	}
}

func TestRepeatClampedUnderSecure(t *testing.T) {
	secure := DefaultRegistry(Secure)
	out := ToString(call(t, secure, "repeat", "abcd", 1000000.0))
	if len(out) > DefaultGrowthBudget {
		t.Errorf("secure repeat length %d exceeds budget %d", len(out), DefaultGrowthBudget)
	}
	if !strings.HasPrefix(out, "abcd") {
		t.Errorf("clamped repeat should still repeat the value, got %q", out)
	}

	normal := DefaultRegistry(Normal)
	out = ToString(call(t, normal, "repeat", "abcd", 100.0))
	if len(out) != 400 {
		t.Errorf("normal repeat length = %d, want 400", len(out))
	}
}

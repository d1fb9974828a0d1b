package jsonfilter

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/fossabot/squiggly/function"
	"github.com/fossabot/squiggly/parser"
)

// apply parses the filter and the document and returns the filtered
// document decoded into a map, so assertions are key-order independent.
func apply(t *testing.T, expr, doc string, vars function.Variables) map[string]any {
	t.Helper()

	registry := function.DefaultRegistry(function.Normal)
	nodes, err := parser.Parse(expr, registry)
	if err != nil {
		t.Fatalf("parse %q: %v", expr, err)
	}

	out, err := New(registry).Apply(nodes, []byte(doc), vars)
	if err != nil {
		t.Fatalf("apply %q: %v", expr, err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	return decoded
}

const person = `{
	"id": 7,
	"name": "ada",
	"password": "hunter2",
	"address": {"city": "london", "zip": "N1", "country": {"code": "GB"}},
	"emails": [{"label": "work", "value": "ada@example.com"}]
}`

func TestApplySelectsFields(t *testing.T) {
	got := apply(t, "id,name", person, nil)
	want := map[string]any{"id": 7.0, "name": "ada"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplyNestedSelection(t *testing.T) {
	got := apply(t, "address{city,zip}", person, nil)
	want := map[string]any{"address": map[string]any{"city": "london", "zip": "N1"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplyLeafIncludesSubtree(t *testing.T) {
	got := apply(t, "address", person, nil)
	address, ok := got["address"].(map[string]any)
	if !ok {
		t.Fatalf("address missing: %v", got)
	}
	// A leaf include keeps the whole subtree.
	if address["city"] != "london" || address["country"].(map[string]any)["code"] != "GB" {
		t.Errorf("leaf include truncated the subtree: %v", address)
	}
}

func TestApplyEmptyNestedPrunesChildren(t *testing.T) {
	got := apply(t, "id,address{}", person, nil)
	address, ok := got["address"].(map[string]any)
	if !ok {
		t.Fatalf("address missing: %v", got)
	}
	if len(address) != 0 {
		t.Errorf("address{} must include the field with pruned children, got %v", address)
	}
}

func TestApplyWildcardWithNegation(t *testing.T) {
	got := apply(t, "*,-password", person, nil)
	if _, ok := got["password"]; ok {
		t.Error("negated field must be excluded")
	}
	for _, key := range []string{"id", "name", "address", "emails"} {
		if _, ok := got[key]; !ok {
			t.Errorf("wildcard should keep %q", key)
		}
	}
}

func TestApplyDeepWildcard(t *testing.T) {
	got := apply(t, "**", person, nil)
	address := got["address"].(map[string]any)
	if address["country"].(map[string]any)["code"] != "GB" {
		t.Error("** should keep every field at every depth")
	}
}

func TestApplyDeepWildcardDepthBounded(t *testing.T) {
	// With max depth 1 (exclusive) only root fields survive; objects below
	// lose all their children.
	got := apply(t, "**[:1]", person, nil)
	if _, ok := got["id"]; !ok {
		t.Fatal("root fields should survive")
	}
	address := got["address"].(map[string]any)
	if len(address) != 0 {
		t.Errorf("depth-bounded ** must prune below the bound, got %v", address)
	}
}

func TestApplyArraysAreTransparent(t *testing.T) {
	got := apply(t, "emails{value}", person, nil)
	emails, ok := got["emails"].([]any)
	if !ok || len(emails) != 1 {
		t.Fatalf("emails = %v", got["emails"])
	}
	want := map[string]any{"value": "ada@example.com"}
	if !reflect.DeepEqual(emails[0], want) {
		t.Errorf("element = %v, want %v", emails[0], want)
	}
}

func TestApplyValueFunctions(t *testing.T) {
	got := apply(t, "name|upper,id", person, nil)
	if got["name"] != "ADA" {
		t.Errorf("name = %v, want ADA", got["name"])
	}
	if got["id"] != 7.0 {
		t.Errorf("id = %v, want 7", got["id"])
	}
}

func TestApplyKeyFunctions(t *testing.T) {
	got := apply(t, "name@upper", person, nil)
	if _, ok := got["name"]; ok {
		t.Error("original key should be renamed away")
	}
	if got["NAME"] != "ada" {
		t.Errorf("NAME = %v, want ada", got["NAME"])
	}
}

func TestApplyFailingTransformKeepsValue(t *testing.T) {
	// truncate with no size argument is under arity and must recover.
	got := apply(t, "name|truncate", person, nil)
	if got["name"] != "ada" {
		t.Errorf("name = %v, want the pre-transform value", got["name"])
	}
}

func TestApplyVariables(t *testing.T) {
	got := apply(t, "$field", person, function.VarMap{"field": "name"})
	want := map[string]any{"name": "ada"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplyInvalidDocument(t *testing.T) {
	registry := function.DefaultRegistry(function.Normal)
	if _, err := New(registry).Apply(nil, []byte("{not json"), nil); err == nil {
		t.Error("invalid JSON must fail")
	}
}

func TestApplyConcurrent(t *testing.T) {
	registry := function.DefaultRegistry(function.Normal)
	nodes, err := parser.Parse("id,address{city}", registry)
	if err != nil {
		t.Fatal(err)
	}
	applier := New(registry)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				if _, err := applier.Apply(nodes, []byte(person), nil); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

func TestDecodeEncodeSymmetry(t *testing.T) {
	registry := function.DefaultRegistry(function.Normal)
	nodes, err := parser.Parse("*", registry)
	if err != nil {
		t.Fatal(err)
	}
	out, err := New(registry).Apply(nodes, []byte(person), nil)
	if err != nil {
		t.Fatal(err)
	}

	var got, want map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(person), &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("* filter should keep the document intact\ngot  %v\nwant %v", got, want)
	}
}

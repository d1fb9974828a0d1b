// Package jsonfilter applies parsed squiggly filters to JSON documents. It
// is the data-graph walker for the fastjson object model: the matching
// engine decides inclusion per field, this package edits the document
// accordingly.
package jsonfilter

import (
	"fmt"
	"time"

	"github.com/valyala/fastjson"

	"github.com/fossabot/squiggly/filter"
	"github.com/fossabot/squiggly/function"
)

// Applier filters JSON documents against filter node trees. Safe for
// concurrent use; parsers and arenas are pooled per call.
type Applier struct {
	pipeline *function.Pipeline
	parsers  fastjson.ParserPool
	arenas   fastjson.ArenaPool
}

// New creates an Applier whose key/value functions execute against the
// given registry.
func New(registry *function.Registry) *Applier {
	return &Applier{pipeline: function.NewPipeline(registry)}
}

// Apply parses doc, filters it against the root-level active set and
// returns the filtered document. vars may be nil.
func (a *Applier) Apply(nodes []*filter.Node, doc []byte, vars function.Variables) ([]byte, error) {
	p := a.parsers.Get()
	defer a.parsers.Put(p)

	v, err := p.ParseBytes(doc)
	if err != nil {
		return nil, fmt.Errorf("jsonfilter: invalid document: %w", err)
	}

	ar := a.arenas.Get()
	defer a.arenas.Put(ar)
	defer ar.Reset()

	a.filterValue(nodes, v, 0, vars, ar)
	return v.MarshalTo(nil), nil
}

// filterValue edits v in place. Arrays are transparent: elements are
// filtered with the same active set at the same depth as the array field
// itself.
func (a *Applier) filterValue(nodes []*filter.Node, v *fastjson.Value, depth int, vars function.Variables, ar *fastjson.Arena) {
	switch v.Type() {
	case fastjson.TypeArray:
		items, _ := v.Array()
		for _, item := range items {
			a.filterValue(nodes, item, depth, vars, ar)
		}

	case fastjson.TypeObject:
		obj, _ := v.Object()

		// Collect first: deleting while visiting is not safe.
		type field struct {
			key string
			val *fastjson.Value
		}
		var fields []field
		obj.Visit(func(key []byte, val *fastjson.Value) {
			fields = append(fields, field{key: string(key), val: val})
		})

		for _, f := range fields {
			d := filter.Match(nodes, f.key, depth, vars)
			if d.Action == filter.Exclude {
				v.Del(f.key)
				continue
			}

			node := d.Node
			cur := f.val

			if fns := node.ValueFunctions(); len(fns) > 0 {
				out := a.pipeline.ApplyValue(decodeValue(f.val), fns, vars)
				cur = encodeValue(ar, out)
			}

			if node.IsEmptyNested() {
				cur = pruneChildren(ar, cur)
			}

			if d.Action == filter.IncludeWithChildren {
				a.filterValue(d.Children, cur, depth+1, vars, ar)
			}

			key := f.key
			if fns := node.KeyFunctions(); len(fns) > 0 {
				key = a.pipeline.ApplyKey(f.key, fns, vars)
			}

			if key != f.key {
				v.Del(f.key)
				v.Set(key, cur)
			} else if cur != f.val {
				v.Set(key, cur)
			}
		}
	}
}

// pruneChildren keeps a value's shape but drops its named children: objects
// empty out, array elements prune recursively, scalars pass through.
func pruneChildren(ar *fastjson.Arena, v *fastjson.Value) *fastjson.Value {
	switch v.Type() {
	case fastjson.TypeObject:
		return ar.NewObject()
	case fastjson.TypeArray:
		out := ar.NewArray()
		items, _ := v.Array()
		for i, item := range items {
			out.SetArrayItem(i, pruneChildren(ar, item))
		}
		return out
	default:
		return v
	}
}

// decodeValue converts a fastjson value into the generic representation the
// function pipeline operates on.
func decodeValue(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return string(b)
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeArray:
		items, _ := v.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = decodeValue(item)
		}
		return out
	case fastjson.TypeObject:
		obj, _ := v.Object()
		out := make(map[string]any)
		obj.Visit(func(key []byte, val *fastjson.Value) {
			out[string(key)] = decodeValue(val)
		})
		return out
	default:
		return nil
	}
}

// encodeValue converts a pipeline result back into an arena-backed fastjson
// value.
func encodeValue(ar *fastjson.Arena, v any) *fastjson.Value {
	switch t := v.(type) {
	case nil:
		return ar.NewNull()
	case string:
		return ar.NewString(t)
	case bool:
		if t {
			return ar.NewTrue()
		}
		return ar.NewFalse()
	case float64:
		return ar.NewNumberFloat64(t)
	case int:
		return ar.NewNumberInt(t)
	case time.Time:
		return ar.NewString(t.Format(time.RFC3339))
	case []any:
		out := ar.NewArray()
		for i, item := range t {
			out.SetArrayItem(i, encodeValue(ar, item))
		}
		return out
	case map[string]any:
		out := ar.NewObject()
		for key, item := range t {
			out.Set(key, encodeValue(ar, item))
		}
		return out
	default:
		return ar.NewString(function.ToString(v))
	}
}

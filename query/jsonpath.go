package query

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/creachadair/jstream/ast"
	"github.com/theory/jsonpath"
)

// JSONPath compiles a query expression in the standard JSONPath syntax
// of RFC 9535 into a query. The resulting query reports an array of all
// the values matching the expression, and fails if nothing matches.
//
// Evaluation converts the input to plain Go values, so the order of
// object members is not preserved: values matched inside objects are
// reported in lexicographic order by key.
func JSONPath(expr string) (Query, error) {
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, err
	}
	return jsonPathQuery{path}, nil
}

type jsonPathQuery struct{ path *jsonpath.Path }

func (q jsonPathQuery) eval(v ast.Value) (ast.Value, error) {
	nodes := q.path.Select(v.Interface())
	if len(nodes) == 0 {
		return nil, errors.New("no matches")
	}
	out := &ast.Array{Values: make([]ast.Value, len(nodes))}
	for i, n := range nodes {
		w, err := fromInterface(n)
		if err != nil {
			return nil, err
		}
		out.Values[i] = w
	}
	return out, nil
}

// fromInterface converts a plain Go value in the shape produced by
// [ast.Value.Interface] back into a syntax tree value.
func fromInterface(v any) (ast.Value, error) {
	switch t := v.(type) {
	case nil:
		return ast.Null{}, nil
	case bool:
		return ast.Bool(t), nil
	case string:
		return ast.String(t), nil
	case int:
		return ast.Int(int64(t)), nil
	case int64:
		return ast.Int(t), nil
	case float64:
		return ast.Float(t), nil
	case []any:
		out := &ast.Array{Values: make([]ast.Value, len(t))}
		for i, elt := range t {
			w, err := fromInterface(elt)
			if err != nil {
				return nil, err
			}
			out.Values[i] = w
		}
		return out, nil
	case map[string]any:
		out := &ast.Object{Members: make([]*ast.Member, 0, len(t))}
		for _, key := range slices.Sorted(maps.Keys(t)) {
			w, err := fromInterface(t[key])
			if err != nil {
				return nil, err
			}
			out.Members = append(out.Members, ast.Field(key, w))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}

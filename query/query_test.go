package query_test

import (
	"strings"
	"testing"

	"github.com/creachadair/jstream/ast"
	"github.com/creachadair/jstream/query"
)

const queryInput = `{
  "show": "space pirates",
  "episodes": [
    {"airDate": "2025-03-01", "episode": 1, "title": "blastoff", "tags": ["pilot"]},
    {"airDate": "2025-03-08", "episode": 2, "title": "asteroid blues", "tags": ["music", "chase"]},
    {"airDate": "2025-03-15", "episode": 3, "title": "mutiny", "guests": 2}
  ],
  "ratings": [4.5, 3.9, 4.8],
  "misc": [1, "two", false, null, [3]],
  "active": true,
  "nextSeason": null
}`

func TestQuery(t *testing.T) {
	root, err := ast.ParseSingle(strings.NewReader(queryInput))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	eval := func(t *testing.T, q query.Query) ast.Value {
		t.Helper()
		v, err := query.Eval(root, q)
		if err != nil {
			t.Fatalf("Eval failed: %v", err)
		}
		return v
	}
	evalJSON := func(t *testing.T, q query.Query, want string) {
		t.Helper()
		if got := eval(t, q).JSON(); got != want {
			t.Errorf("Result: got %#q, want %#q", got, want)
		}
	}
	evalErr := func(t *testing.T, q query.Query, want string) {
		t.Helper()
		v, err := query.Eval(root, q)
		if err == nil {
			t.Fatalf("Eval: got %+v, want error", v)
		} else if got := err.Error(); got != want {
			t.Errorf("Error: got %#q, want %#q", got, want)
		}
	}

	t.Run("Path", func(t *testing.T) {
		evalJSON(t, query.Path("episodes", 0, "airDate"), `"2025-03-01"`)
		evalJSON(t, query.Path("episodes", -1, "title"), `"mutiny"`)
		evalJSON(t, query.Path("episodes", 2, "guests"), `2`)

		// An empty path selects the root itself.
		if v := eval(t, query.Path()); v != ast.Value(root) {
			t.Errorf("Empty path: got %v, want the root", v)
		}
	})

	t.Run("PathErrors", func(t *testing.T) {
		evalErr(t, query.Path("nonesuch"), `key "nonesuch" not found`)
		evalErr(t, query.Path("episodes", 3), `index 3 out of range (0..3)`)
		evalErr(t, query.Path("episodes", -4), `index -4 out of range (0..3)`)
		evalErr(t, query.Path("active", "x"), `got ast.Bool, want object`)
		evalErr(t, query.Path("show", 0), `got ast.String, want array`)
	})

	t.Run("Seq", func(t *testing.T) {
		evalJSON(t, query.Seq{query.Path("episodes"), query.Len()}, `3`)
		evalJSON(t, query.Seq{
			query.Path("episodes", 1),
			query.Path("tags", 0),
		}, `"music"`)
	})

	t.Run("Alt", func(t *testing.T) {
		evalJSON(t, query.Alt{
			query.Path("nonesuch"),
			query.Path("show"),
			query.Path("active"),
		}, `"space pirates"`)
		evalErr(t, query.Alt{query.Path("nonesuch")}, "no matching alternatives")
		evalErr(t, query.Alt{}, "no matching alternatives")
	})

	t.Run("Each", func(t *testing.T) {
		evalJSON(t, query.Path("episodes", query.Each("airDate")),
			`["2025-03-01","2025-03-08","2025-03-15"]`)
		evalErr(t, query.Path("episodes", query.Each("guests")),
			`index 0: key "guests" not found`)
	})

	t.Run("Recur", func(t *testing.T) {
		evalJSON(t, query.Recur("title"), `["blastoff","asteroid blues","mutiny"]`)
		evalJSON(t, query.Recur("episode"), `[1,2,3]`)
		evalJSON(t, query.Recur("tags", 0), `["pilot","music"]`)
		evalErr(t, query.Recur("nonesuch"), "no matches")
	})

	t.Run("Slice", func(t *testing.T) {
		evalJSON(t, query.Path("ratings", query.Slice(1, 0)), `[3.9,4.8]`)
		evalJSON(t, query.Path("ratings", query.Slice(0, -1)), `[4.5,3.9]`)
		evalJSON(t, query.Path("ratings", query.Slice(-2, 0)), `[3.9,4.8]`)
		evalErr(t, query.Path("ratings", query.Slice(2, 1)), "index start 2 > end 1")
	})

	t.Run("Pick", func(t *testing.T) {
		evalJSON(t, query.Path("ratings", query.Pick(2, 0, -1)), `[4.8,4.5,4.8]`)
		evalErr(t, query.Path("ratings", query.Pick(3)), "index 3 out of range (0..3)")
	})

	t.Run("Len", func(t *testing.T) {
		evalJSON(t, query.Path("episodes", query.Len()), `3`)
		evalJSON(t, query.Path("episodes", 0, query.Len()), `4`)
		evalJSON(t, query.Path("show", query.Len()), `13`)
		evalJSON(t, query.Path("nextSeason", query.Len()), `0`)
		evalErr(t, query.Path("active", query.Len()), "cannot take length of ast.Bool")
	})

	t.Run("Object", func(t *testing.T) {
		// Members of the result are ordered by key.
		evalJSON(t, query.Path("episodes", 2, query.Object{
			"title": query.Path("title"),
			"crew":  query.Path("guests"),
			"extra": query.String("bonus"),
		}), `{"crew":2,"extra":"bonus","title":"mutiny"}`)
		evalErr(t, query.Object{"x": query.Path("nonesuch")},
			`match "x": key "nonesuch" not found`)
	})

	t.Run("Array", func(t *testing.T) {
		evalJSON(t, query.Array{
			query.Path("show"),
			query.Path("ratings", 2),
		}, `["space pirates",4.8]`)
		evalErr(t, query.Array{query.Path("nonesuch")},
			`index 0: key "nonesuch" not found`)
	})

	t.Run("Const", func(t *testing.T) {
		evalJSON(t, query.String("hi"), `"hi"`)
		evalJSON(t, query.Int(-17), `-17`)
		evalJSON(t, query.Float(2.5), `2.5`)
		evalJSON(t, query.Bool(true), `true`)
		evalJSON(t, query.Null(), `null`)
		evalJSON(t, query.Value(ast.Int(42)), `42`)
	})

	t.Run("Glob", func(t *testing.T) {
		evalJSON(t, query.Path("episodes", 1, query.Glob()),
			`["2025-03-08",2,"asteroid blues",["music","chase"]]`)
		evalJSON(t, query.Path("ratings", query.Glob()), `[4.5,3.9,4.8]`)
		evalErr(t, query.Path("show", query.Glob()), "no matching values")
	})

	t.Run("Exists", func(t *testing.T) {
		evalJSON(t, query.Path("episodes", query.Exists("guests"), query.Each("title")),
			`["mutiny"]`)
		evalJSON(t, query.Path("episodes", query.Exists("tags"), query.Len()), `2`)
	})

	t.Run("Is", func(t *testing.T) {
		evalJSON(t, query.Path("misc", query.Is[ast.Number]()), `[1]`)
		evalJSON(t, query.Path("misc", query.IsNot[ast.String]()), `[1,false,null,[3]]`)
	})

	t.Run("Filter", func(t *testing.T) {
		evalJSON(t, query.Path("ratings", query.Filter(func(n ast.Number) bool {
			return n.Float64() > 4
		})), `[4.5,4.8]`)
	})

	t.Run("Map", func(t *testing.T) {
		evalJSON(t, query.Path("episodes", 1, "tags", query.Map(func(s ast.String) ast.String {
			return ast.String(strings.ToUpper(string(s)))
		})), `["MUSIC","CHASE"]`)

		// Values of other types pass through unmodified.
		evalJSON(t, query.Path("misc", query.Map(func(b ast.Bool) ast.Bool {
			return !b
		})), `[1,"two",true,null,[3]]`)
	})
}

func TestJPath(t *testing.T) {
	root, err := ast.ParseSingle(strings.NewReader(queryInput))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		path, want string
	}{
		{`$.show`, `"space pirates"`},
		{`$.episodes[0].airDate`, `"2025-03-01"`},
		{`$.episodes[-1].title`, `"mutiny"`},
		{`$.ratings[1:]`, `[3.9,4.8]`},
		{`$.ratings[:2]`, `[4.5,3.9]`},
		{`$.ratings[2,0]`, `[4.8,4.5]`},
		{`$.ratings[*]`, `[4.5,3.9,4.8]`},
		{`$..title`, `["blastoff","asteroid blues","mutiny"]`},
		{`$..tags[0]`, `["pilot"]`},
	}
	for _, test := range tests {
		q, err := query.JPath(test.path)
		if err != nil {
			t.Errorf("JPath %#q: unexpected error: %v", test.path, err)
			continue
		}
		v, err := query.Eval(root, q)
		if err != nil {
			t.Errorf("Eval %#q failed: %v", test.path, err)
			continue
		}
		if got := v.JSON(); got != test.want {
			t.Errorf("Eval %#q: got %#q, want %#q", test.path, got, test.want)
		}
	}

	t.Run("Root", func(t *testing.T) {
		q, err := query.JPath(`$`)
		if err != nil {
			t.Fatalf("JPath failed: %v", err)
		}
		v, err := query.Eval(root, q)
		if err != nil {
			t.Fatalf("Eval failed: %v", err)
		}
		if v != ast.Value(root) {
			t.Errorf("Result: got %v, want the root", v)
		}
	})

	t.Run("Everything", func(t *testing.T) {
		// A recursive wildcard selects each value reachable from the root,
		// including the root itself, in lexical order.
		small, err := ast.ParseSingle(strings.NewReader(`{"a": [1, 2], "b": {"c": true}}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		q, err := query.JPath(`$..*`)
		if err != nil {
			t.Fatalf("JPath failed: %v", err)
		}
		v, err := query.Eval(small, q)
		if err != nil {
			t.Fatalf("Eval failed: %v", err)
		}
		const want = `[{"a":[1,2],"b":{"c":true}},[1,2],1,2,{"c":true},true]`
		if got := v.JSON(); got != want {
			t.Errorf("Result: got %#q, want %#q", got, want)
		}
	})

	t.Run("BadPath", func(t *testing.T) {
		for _, bad := range []string{"", "show", "$.", "$.a[", "$[?(@.x)]"} {
			if q, err := query.JPath(bad); err == nil {
				t.Errorf("JPath %#q: got %v, want error", bad, q)
			}
		}
	})

	t.Run("EvalError", func(t *testing.T) {
		q, err := query.JPath(`$.episodes[9].title`)
		if err != nil {
			t.Fatalf("JPath failed: %v", err)
		}
		if v, err := query.Eval(root, q); err == nil {
			t.Errorf("Eval: got %v, want error", v)
		}
	})
}

func TestJSONPath(t *testing.T) {
	root, err := ast.ParseSingle(strings.NewReader(`{
  "store": {
    "fruit": [
      {"name": "apple", "price": 3.5},
      {"name": "banana", "price": 2.25},
      {"name": "cherry", "price": 7.0}
    ],
    "counts": {"zeta": 1, "alpha": 2},
    "open": true
  }
}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		path, want string
	}{
		{`$.store.open`, `[true]`},
		{`$.store.fruit[1].name`, `["banana"]`},
		{`$.store.fruit[*].name`, `["apple","banana","cherry"]`},
		{`$..price`, `[3.5,2.25,7]`},
		{`$.store.fruit[?@.price < 4].name`, `["apple","banana"]`},
		{`$.store.fruit[?@.name == "cherry"].price`, `[7]`},

		// Object members re-render in lexicographic order.
		{`$.store.counts`, `[{"alpha":2,"zeta":1}]`},
	}
	for _, test := range tests {
		q, err := query.JSONPath(test.path)
		if err != nil {
			t.Errorf("JSONPath %#q: unexpected error: %v", test.path, err)
			continue
		}
		v, err := query.Eval(root, q)
		if err != nil {
			t.Errorf("Eval %#q failed: %v", test.path, err)
			continue
		}
		if got := v.JSON(); got != test.want {
			t.Errorf("Eval %#q: got %#q, want %#q", test.path, got, test.want)
		}
	}

	t.Run("NoMatch", func(t *testing.T) {
		q, err := query.JSONPath(`$.store.nothing`)
		if err != nil {
			t.Fatalf("JSONPath failed: %v", err)
		}
		if v, err := query.Eval(root, q); err == nil {
			t.Errorf("Eval: got %v, want error", v)
		} else if got := err.Error(); got != "no matches" {
			t.Errorf("Error: got %#q, want no matches", got)
		}
	})

	t.Run("BadPath", func(t *testing.T) {
		for _, bad := range []string{"store", "$.store[", "$.a b"} {
			if q, err := query.JSONPath(bad); err == nil {
				t.Errorf("JSONPath %#q: got %v, want error", bad, q)
			}
		}
	})
}

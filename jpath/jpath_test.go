package jpath_test

import (
	"strings"
	"testing"

	"github.com/creachadair/jstream/jpath"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string // expected String form; empty means same as input
	}{
		{"$", ""},
		{"$..author", ""},
		{"$.store.book", ""},
		{"$.store.*", ""},
		{"$.store..price", ""},
		{"$..book[2]", ""},
		{"$..book[-1:]", ""},
		{"$..book[0,1]", ""},
		{"$..book[:2]", ""},
		{"$..book[1:4]", ""},
		{"$..*", ""},
		{"$['apple sauce'].pearPlum..'cherry apple'", ""},
		{`$['it\'s']`, ""},

		// Bracketed words and wildcards print in their dotted forms.
		{"$[a][1:3][b]['c d e']", "$.a[1:3].b['c d e']"},
		{"$.store.book[*]..author", "$.store.book.*..author"},
	}
	for _, test := range tests {
		e, err := jpath.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: %v", test.input, err)
			continue
		}

		want := test.want
		if want == "" {
			want = test.input
		}
		if got := e.String(); got != want {
			t.Errorf("Parse %q:\n got %q\nwant %q", test.input, got, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string // a substring of the error
	}{
		{"", "missing root marker"},
		{"store.book", "missing root marker"},
		{"$x", "invalid path step"},
		{"$.", "invalid name"},
		{"$..", "invalid name"},
		{"$[", "invalid value"},
		{"$[1", "missing close bracket"},
		{"$[:]", "invalid slice"},

		// Script and filter steps are not part of this dialect.
		{"$..book[?(@.isbn)]", "invalid value"},
		{"$..book[(@.length-1)]", "invalid value"},
	}
	for _, test := range tests {
		e, err := jpath.Parse(test.input)
		if err == nil {
			t.Errorf("Parse %q: got %v, want error", test.input, e)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("Parse %q: got error %v, want %q", test.input, err, test.want)
		}
	}
}

func TestSteps(t *testing.T) {
	e, err := jpath.Parse(`$.a[0]..b[1:2].*['c d']`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := jpath.Expr{
		{Op: jpath.Member, Arg1: "a"},
		{Op: jpath.Index, Arg1: "0"},
		{Op: jpath.Recur, Arg1: "b"},
		{Op: jpath.Slice, Arg1: "1", Arg2: "2"},
		{Op: jpath.Wildcard},
		{Op: jpath.Member, Arg1: "c d"},
	}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("Steps: (-want, +got)\n%s", diff)
	}
}

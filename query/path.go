package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/jstream/jpath"
)

// JPath compiles a path expression in the dialect of the jpath package
// into a query. For example:
//
//	$.store.book[0].title
//	$..author
//	$.items[1:4]
//
// A recursive wildcard step ".." followed by "*" selects every value
// reachable from its input, including the input itself. For the standard
// JSONPath query syntax of RFC 9535, use JSONPath instead.
func JPath(expr string) (Query, error) {
	e, err := jpath.Parse(expr)
	if err != nil {
		return nil, err
	}
	q := make(Seq, 0, len(e))
	for _, step := range e {
		sq, err := compileStep(step)
		if err != nil {
			return nil, fmt.Errorf("step %v: %w", step.Op, err)
		}
		q = append(q, sq)
	}
	return q, nil
}

func compileStep(s jpath.Step) (Query, error) {
	switch s.Op {
	case jpath.Member:
		return objKey(s.Arg1), nil

	case jpath.Index:
		if !strings.Contains(s.Arg1, ",") {
			n, err := strconv.Atoi(s.Arg1)
			if err != nil {
				return nil, err
			}
			return nthQuery(n), nil
		}
		parts := strings.Split(s.Arg1, ",")
		offs := make(pickQuery, len(parts))
		for i, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return nil, err
			}
			offs[i] = n
		}
		return offs, nil

	case jpath.Slice:
		var q sliceQuery
		if s.Arg1 != "" {
			lo, err := strconv.Atoi(s.Arg1)
			if err != nil {
				return nil, err
			}
			q.lo = lo
		}
		if s.Arg2 != "" {
			hi, err := strconv.Atoi(s.Arg2)
			if err != nil {
				return nil, err
			}
			q.hi = hi
		}
		return q, nil

	case jpath.Wildcard:
		return globQuery{}, nil

	case jpath.Recur:
		if s.Arg1 == "*" {
			return recQuery{Seq(nil)}, nil
		}
		return recQuery{objKey(s.Arg1)}, nil
	}
	return nil, fmt.Errorf("invalid step %v", s.Op)
}

// Package jpath implements a minimal JSONPath expression parser.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" value "]"
  step = "[" slice "]"
  name = WORD
  name = "'" QTEXT "'"
  name = "*"
 value = name
 value = INDEX
 slice = [INDEX] ":" [INDEX]

  WORD = RE `\w+`
 QTEXT = RE `([^'\\]|\\.)*`
 INDEX = RE `-?\d+` with "," separated unions

The script and filter extensions of the original proposal are not
supported.

Source:
  https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
*/

// An Expr is a parsed JSONPath expression.
type Expr []Step

// Parse parses s as a JSONPath expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var steps []Step
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
		t = rest
	}
	return Expr(steps), nil
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		switch s.Op {
		case Member:
			if isWord(s.Arg1) {
				buf.WriteString("." + s.Arg1)
			} else {
				fmt.Fprintf(&buf, "['%s']", escapeName(s.Arg1))
			}

		case Recur:
			if isWord(s.Arg1) || s.Arg1 == "*" {
				buf.WriteString(".." + s.Arg1)
			} else {
				fmt.Fprintf(&buf, "..'%s'", escapeName(s.Arg1))
			}

		case Wildcard:
			buf.WriteString(".*")

		case Slice:
			fmt.Fprintf(&buf, "[%s:%s]", s.Arg1, s.Arg2)

		default:
			fmt.Fprintf(&buf, "[%s]", s.Arg1)
		}
	}
	return buf.String()
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		name, _, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		}
		return Step{Op: Recur, Arg1: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		name, quoted, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		}
		if name == "*" && !quoted {
			return Step{Op: Wildcard}, u, nil
		}
		return Step{Op: Member, Arg1: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		out, u, err := parseValue(t)
		if err != nil {
			return Step{}, s, err
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return Step{}, u, errors.New("missing close bracket")
		}
		return out, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

func parseName(s string) (name string, quoted bool, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return "*", false, t, nil
	}
	if m := wordRE.FindStringSubmatch(s); m != nil {
		return m[1], false, s[len(m[0]):], nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return unescapeName(m[1]), true, s[len(m[0]):], nil
	}
	return "", false, s, errors.New("invalid name")
}

func parseIndex(s string) (text, rest string, _ error) {
	if m := indexRE.FindStringSubmatch(s); m != nil {
		return m[1], s[len(m[0]):], nil
	}
	return "", "", errors.New("invalid index")
}

func parseValue(s string) (_ Step, rest string, _ error) {
	if text, u, err := parseIndex(s); err == nil {
		if t, ok := strings.CutPrefix(u, ":"); ok {
			return parseSliceEnd(text, t)
		}
		return Step{Op: Index, Arg1: text}, u, nil
	}
	if t, ok := strings.CutPrefix(s, ":"); ok {
		return parseSliceEnd("", t)
	}
	if name, quoted, u, err := parseName(s); err == nil {
		if name == "*" && !quoted {
			return Step{Op: Wildcard}, u, nil
		}
		return Step{Op: Member, Arg1: name}, u, nil
	}
	return Step{}, s, fmt.Errorf("invalid value: %q", s)
}

// parseSliceEnd parses the tail of a slice step whose ":" has been
// consumed. Either bound may be empty, but not both.
func parseSliceEnd(lo, s string) (Step, string, error) {
	if m := numRE.FindStringSubmatch(s); m != nil {
		return Step{Op: Slice, Arg1: lo, Arg2: m[1]}, s[len(m[0]):], nil
	}
	if lo == "" {
		return Step{}, s, errors.New("invalid slice")
	}
	return Step{Op: Slice, Arg1: lo}, s, nil
}

func isWord(s string) bool { return s != "" && fullWordRE.MatchString(s) }

func escapeName(s string) string { return nameEsc.Replace(s) }

func unescapeName(s string) string { return nameUnesc.Replace(s) }

var (
	wordRE     = regexp.MustCompile(`^(\w+)`)
	fullWordRE = regexp.MustCompile(`^\w+$`)
	indexRE    = regexp.MustCompile(`^(-?\d+(?:,-?\d+)*)`)
	numRE      = regexp.MustCompile(`^(-?\d+)`)
	quoteRE    = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)'`)

	nameEsc   = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	nameUnesc = strings.NewReplacer(`\\`, `\`, `\'`, `'`)
)

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Member             // member lookup by name
	Index              // array index lookup, possibly a union
	Slice              // array slice
	Wildcard           // wildcard expansion (*)
	Recur              // recursive descent (..)
)

var opText = map[Op]string{
	Invalid:  "invalid",
	Member:   ".",
	Index:    "index",
	Slice:    "slice",
	Wildcard: "*",
	Recur:    "..",
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return opText[Invalid]
}

// A Step is a single step of a JSONPath expression.
type Step struct {
	Op   Op
	Arg1 string
	Arg2 string
}

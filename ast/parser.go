// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/jstream"
)

// Parse parses and returns the JSON values from r. In case of error, any
// complete values already parsed are returned along with the error.
func Parse(r io.Reader) ([]Value, error) {
	h := new(parseHandler)
	st := jstream.NewStream(r, nil)
	var vs []Value
	for {
		if err := st.ParseOne(h); err == io.EOF {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		v := h.take()
		if v == nil {
			return vs, errors.New("incomplete value")
		}
		vs = append(vs, v)
	}
}

// ParseSingle parses a single JSON value from r. If the input is empty,
// ParseSingle reports io.EOF; if input remains after the first value, it
// reports an error.
func ParseSingle(r io.Reader) (Value, error) {
	h := new(parseHandler)
	st := jstream.NewStream(r, nil)
	if err := st.ParseOne(h); err != nil {
		return nil, err
	}
	v := h.take()
	if v == nil {
		return nil, errors.New("incomplete value")
	}
	if err := st.ParseOne(h); err == nil {
		return nil, errors.New("extra input after value")
	} else if err != io.EOF {
		return nil, err
	}
	return v, nil
}

// A parseHandler implements the jstream.Handler interface to construct
// abstract syntax trees for JSON values.
type parseHandler struct {
	stk []any // incomplete containers (*Object, *Array) and members
	out Value // the most recently completed top-level value
}

// take returns the most recently completed value, if any, and resets the
// handler for the next value.
func (h *parseHandler) take() Value { v := h.out; h.out = nil; return v }

// complete links the finished value v into the container under
// construction, or records it as a finished top-level value.
func (h *parseHandler) complete(v Value) {
	if len(h.stk) == 0 {
		h.out = v
		return
	}
	switch prev := h.stk[len(h.stk)-1].(type) {
	case *Member:
		// The member is already linked into its object. Fill in its value
		// and retire it from the stack.
		prev.Value = v
		h.stk = h.stk[:len(h.stk)-1]
	case *Array:
		prev.Values = append(prev.Values, v)
	}
}

func (h *parseHandler) push(v any) { h.stk = append(h.stk, v) }

func (h *parseHandler) pop() any {
	last := h.stk[len(h.stk)-1]
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) BeginObject() error { h.push(new(Object)); return nil }

func (h *parseHandler) EndObject() error { h.complete(h.pop().(*Object)); return nil }

func (h *parseHandler) BeginArray() error { h.push(new(Array)); return nil }

func (h *parseHandler) EndArray() error { h.complete(h.pop().(*Array)); return nil }

func (h *parseHandler) Key(key string) error {
	// The object this member belongs to is atop the stack. Link the new
	// member into its collection eagerly, so that completing its value
	// does not need a separate reduction step.
	m := &Member{Key: key}
	obj := h.stk[len(h.stk)-1].(*Object)
	obj.Members = append(obj.Members, m)
	h.push(m)
	return nil
}

func (h *parseHandler) Value(v jstream.Value) error {
	switch v.Kind() {
	case jstream.String:
		text, err := v.String().Text()
		if err != nil {
			return err
		}
		h.complete(String(text))
	case jstream.Number:
		num := v.Number()
		text, err := num.Text()
		if err != nil {
			return err
		}
		h.complete(Number{text: text, isInt: num.IsInt()})
	case jstream.Bool:
		h.complete(Bool(v.Bool()))
	case jstream.Null:
		h.complete(Null{})
	default:
		return fmt.Errorf("unexpected value kind %v", v.Kind())
	}
	return nil
}

func (h *parseHandler) EndOfInput() {}

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import "io"

// A Handler handles events from parsing an input stream. If a method
// reports an error, parsing stops and that error is returned to the
// caller. The parser ensures objects and arrays are correctly balanced
// before their callbacks are delivered.
type Handler interface {
	// Begin a new object.
	BeginObject() error

	// End the most-recently-opened object.
	EndObject() error

	// Begin a new array.
	BeginArray() error

	// End the most-recently-opened array.
	EndArray() error

	// Report the key of the next object member. The key is fully decoded.
	// Each call to Key is followed by the events of exactly one value.
	Key(key string) error

	// Report a single string, number, Boolean, or null value. The views
	// of v are only valid for the duration of the method call. If the
	// method needs to retain the contents of the value after it returns,
	// it must copy the relevant data.
	Value(v Value) error

	// EndOfInput reports the end of the input stream.
	EndOfInput()
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input. It retains only
// the token it is currently delivering, so a stream can process input
// much larger than its decoding buffer.
type Stream struct {
	p *Parser
}

// NewStream constructs a new Stream that consumes input from r.
// If opts == nil, default options are used as described by Options.
func NewStream(r io.Reader, opts *Options) *Stream {
	return &Stream{p: NewParser(r, opts)}
}

// Parse parses the input stream and delivers events to h until either an
// error occurs or the input is exhausted. At the end of input it calls
// EndOfInput and reports nil.
func (s *Stream) Parse(h Handler) error {
	for {
		v, err := s.p.Next()
		if err == io.EOF {
			h.EndOfInput()
			return nil
		} else if err != nil {
			return err
		}
		if err := s.walk(h, v); err != nil {
			return err
		}
	}
}

// ParseOne parses a single value from the input stream and delivers
// events to h until the value is complete or an error occurs. If no
// further value is available from the input, ParseOne calls EndOfInput
// and returns io.EOF.
func (s *Stream) ParseOne(h Handler) error {
	v, err := s.p.Next()
	if err == io.EOF {
		h.EndOfInput()
		return err
	} else if err != nil {
		return err
	}
	return s.walk(h, v)
}

// An open is a container whose events have begun but not yet ended.
// Exactly one of its fields is non-nil.
type open struct {
	arr *ArrayCursor
	obj *ObjectCursor
}

// walk delivers the events for v and everything nested inside it.
// Containers are tracked on an explicit stack, so input nesting is
// limited by the parser's depth limit rather than the call stack.
func (s *Stream) walk(h Handler, v Value) error {
	var stack []open

	enter := func(v Value) error {
		switch v.Kind() {
		case Object:
			stack = append(stack, open{obj: v.Object()})
			return h.BeginObject()
		case Array:
			stack = append(stack, open{arr: v.Array()})
			return h.BeginArray()
		default:
			return h.Value(v)
		}
	}

	if err := enter(v); err != nil {
		return err
	}
	for len(stack) != 0 {
		if top := stack[len(stack)-1]; top.arr != nil {
			elt, err := top.arr.Next()
			if err == io.EOF {
				stack = stack[:len(stack)-1]
				if err := h.EndArray(); err != nil {
					return err
				}
				continue
			} else if err != nil {
				return err
			}
			if err := enter(elt); err != nil {
				return err
			}
		} else {
			key, elt, err := top.obj.Next()
			if err == io.EOF {
				stack = stack[:len(stack)-1]
				if err := h.EndObject(); err != nil {
					return err
				}
				continue
			} else if err != nil {
				return err
			}
			if err := h.Key(key); err != nil {
				return err
			}
			if err := enter(elt); err != nil {
				return err
			}
		}
	}
	return nil
}

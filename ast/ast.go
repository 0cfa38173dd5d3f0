// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an abstract syntax tree for JSON values,
// and a parser that constructs syntax trees from JSON source.
package ast

import (
	"strconv"
	"strings"

	"github.com/creachadair/jstream"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// JSON renders the value as JSON source text.
	JSON() string

	// Interface converts the value into a plain Go value: nil, bool,
	// int64, float64, or string for data values, []any for arrays, and
	// map[string]any for objects.
	Interface() any
}

// An Object is a collection of key-value members.
type Object struct {
	Members []*Member
}

// Find returns the first member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Len reports the number of members of o.
func (o *Object) Len() int { return len(o.Members) }

// JSON satisfies the Value interface.
func (o *Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o.Members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Interface satisfies the Value interface. If multiple members share a
// key, the latest occurrence wins.
func (o *Object) Interface() any {
	out := make(map[string]any, len(o.Members))
	for _, m := range o.Members {
		out[m.Key] = m.Value.Interface()
	}
	return out
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, value Value) *Member { return &Member{Key: key, Value: value} }

// JSON renders the member as JSON source text.
func (m *Member) JSON() string {
	return jstream.Quote(m.Key) + ":" + m.Value.JSON()
}

// An Array is a sequence of values.
type Array struct {
	Values []Value
}

// Len reports the number of elements of a.
func (a *Array) Len() int { return len(a.Values) }

// JSON satisfies the Value interface.
func (a *Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Interface satisfies the Value interface.
func (a *Array) Interface() any {
	out := make([]any, len(a.Values))
	for i, v := range a.Values {
		out[i] = v.Interface()
	}
	return out
}

// A String is a string value. Its contents are fully decoded.
type String string

// Len reports the length of the string in bytes.
func (s String) Len() int { return len(s) }

// JSON satisfies the Value interface.
func (s String) JSON() string { return jstream.Quote(string(s)) }

// Interface satisfies the Value interface.
func (s String) Interface() any { return string(s) }

// A Number is a numeric value. The source text of the number is
// preserved verbatim, and conversions are deferred until they are
// needed.
type Number struct {
	text  string
	isInt bool
}

// Int constructs a Number with the integer value z.
func Int(z int64) Number { return Number{text: strconv.FormatInt(z, 10), isInt: true} }

// Float constructs a Number with the floating-point value f.
func Float(f float64) Number {
	return Number{text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Text reports the source text of the number.
func (n Number) Text() string { return n.text }

// IsInt reports whether n is written without a fraction or exponent.
func (n Number) IsInt() bool { return n.isInt }

// Int64 converts n to an int64, or panics if the conversion fails.
func (n Number) Int64() int64 {
	v, err := strconv.ParseInt(n.text, 10, 64)
	if err != nil {
		panic(err)
	}
	return v
}

// Float64 converts n to a float64, or panics if the conversion fails.
func (n Number) Float64() float64 {
	v, err := strconv.ParseFloat(n.text, 64)
	if err != nil {
		panic(err)
	}
	return v
}

// JSON satisfies the Value interface.
func (n Number) JSON() string { return n.text }

// Interface satisfies the Value interface. It reports an int64 if n is
// an integer whose value fits in that type, otherwise a float64.
func (n Number) Interface() any {
	if n.isInt {
		if v, err := strconv.ParseInt(n.text, 10, 64); err == nil {
			return v
		}
	}
	v, _ := strconv.ParseFloat(n.text, 64)
	return v
}

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

// Interface satisfies the Value interface.
func (b Bool) Interface() any { return bool(b) }

// Null represents the null constant.
type Null struct{}

// Len reports the length of the null value, which is zero.
func (Null) Len() int { return 0 }

// JSON satisfies the Value interface.
func (Null) JSON() string { return "null" }

// Interface satisfies the Value interface.
func (Null) Interface() any { return nil }

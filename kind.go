// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

// Kind is the type of a JSON value produced by a Parser.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid Kind = iota // zero value, no valid value present
	Null                // the null constant
	Bool                // the true and false constants
	Number              // a number
	String              // a quoted string
	Array               // an array "[...]"
	Object              // an object "{...}"
)

var kindStr = [...]string{
	Invalid: "invalid",
	Null:    "null",
	Bool:    "bool",
	Number:  "number",
	String:  "string",
	Array:   "array",
	Object:  "object",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[v]
}

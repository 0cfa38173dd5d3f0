// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by parser, view, and cursor operations.
var (
	// ErrViewExpired is reported when a StringView or NumberView is read
	// after the parser has advanced past the value it refers to.
	ErrViewExpired = errors.New("view expired")

	// ErrCursorExpired is reported when an ArrayCursor or ObjectCursor is
	// used after its container was closed by an operation on an enclosing
	// cursor or on the parser itself.
	ErrCursorExpired = errors.New("cursor expired")

	// ErrBufferLimit is reported when a single token requires the refill
	// buffer to grow beyond the configured MaxBufferSize.
	ErrBufferLimit = errors.New("buffer size limit exceeded")
)

// A LexicalError reports a malformed token: a bad escape sequence, invalid
// number syntax, an unknown constant, invalid UTF-8, an unescaped control
// byte, or an end of input that splits a token.
type LexicalError struct {
	Offset  int64  // byte offset in the input where the error occurred
	Message string

	err error
}

// Error satisfies the error interface.
func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.Message, e.Offset)
}

// Unwrap supports error wrapping. For truncation errors the result is
// io.ErrUnexpectedEOF.
func (e *LexicalError) Unwrap() error { return e.err }

// A StructuralError reports a token that is lexically valid but not
// grammatical at the position where it occurred: a misplaced separator, a
// missing comma or colon, a container nested beyond the depth limit, or an
// end of input inside an open container.
type StructuralError struct {
	Offset  int64 // byte offset in the input where the error occurred
	Message string

	err error
}

// Error satisfies the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.Message, e.Offset)
}

// Unwrap supports error wrapping. For truncation errors the result is
// io.ErrUnexpectedEOF.
func (e *StructuralError) Unwrap() error { return e.err }

// A RangeError reports that a number could not be materialized into the
// requested representation, for example an integer too large for int64 or
// a value whose magnitude overflows float64.
type RangeError struct {
	Value  string // the numeric text as written in the input
	Target string // the name of the requested representation

	err error
}

// Error satisfies the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("cannot represent %s as %s", e.Value, e.Target)
}

// Unwrap supports error wrapping, typically to a strconv error.
func (e *RangeError) Unwrap() error { return e.err }

// A scanError is a lexical failure located relative to the start of the
// scanner's window. The parser rewrites it to a LexicalError with an
// absolute offset before returning it to the caller.
type scanError struct {
	off int // window-relative offset of the offending byte
	msg string
}

func (e *scanError) Error() string { return e.msg }

func scanErrorf(off int, msg string, args ...any) error {
	return &scanError{off: off, msg: fmt.Sprintf(msg, args...)}
}

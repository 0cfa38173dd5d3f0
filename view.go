// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"io"

	"github.com/creachadair/jstream/internal/escape"
	"go4.org/mem"
)

// A StringView is a lazy handle to the buffered bytes of one string
// value. No decoding happens until the caller asks for it. A view is
// valid only until the parser advances past the value; any read after
// that reports ErrViewExpired rather than returning stale bytes.
type StringView struct {
	p   *Parser
	gen uint64
	raw []byte // the string body, quotes removed, escapes intact
	esc bool   // the body contains at least one escape sequence
}

func (s *StringView) valid() error {
	if s.gen != s.p.gen {
		return ErrViewExpired
	}
	return nil
}

// Raw returns the undecoded bytes of the string body with the enclosing
// quotes removed and escape sequences intact. The slice aliases the
// parser's buffer and is valid only until the parser advances; the caller
// must copy it if it is needed beyond that.
func (s *StringView) Raw() ([]byte, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}
	return s.raw, nil
}

// Text materializes the string as an owned value with all escape
// sequences decoded.
func (s *StringView) Text() (string, error) {
	if err := s.valid(); err != nil {
		return "", err
	}
	return unquoteText(s.raw, s.esc)
}

// WriteTo streams the decoded text of the string into w, decoding escape
// sequences incrementally without materializing the whole string. It
// implements io.WriterTo.
func (s *StringView) WriteTo(w io.Writer) (int64, error) {
	if err := s.valid(); err != nil {
		return 0, err
	}
	if !s.esc {
		n, err := w.Write(s.raw)
		return int64(n), err
	}
	return escape.UnquoteTo(w, mem.B(s.raw))
}

// A NumberView is a lazy handle to the buffered bytes of one number
// value. The numeric text is kept as written; conversion happens when the
// caller picks a representation. A view is valid only until the parser
// advances past the value; any read after that reports ErrViewExpired.
type NumberView struct {
	p     *Parser
	gen   uint64
	raw   []byte
	isInt bool
}

func (n *NumberView) valid() error {
	if n.gen != n.p.gen {
		return ErrViewExpired
	}
	return nil
}

// IsInt reports whether the number is written in integer syntax, with no
// fraction or exponent part.
func (n *NumberView) IsInt() bool { return n.isInt }

// Raw returns the undecoded bytes of the number as written. The slice
// aliases the parser's buffer and is valid only until the parser
// advances; the caller must copy it if it is needed beyond that.
func (n *NumberView) Raw() ([]byte, error) {
	if err := n.valid(); err != nil {
		return nil, err
	}
	return n.raw, nil
}

// Text returns the numeric text as an owned string, exactly as written.
// Callers needing arbitrary precision can feed the result to math/big.
func (n *NumberView) Text() (string, error) {
	if err := n.valid(); err != nil {
		return "", err
	}
	return string(n.raw), nil
}

// Int64 converts the number to int64. Numbers with a fraction or exponent
// part, and integers that overflow the target, report a *RangeError.
func (n *NumberView) Int64() (int64, error) {
	if err := n.valid(); err != nil {
		return 0, err
	}
	return parseInt64(n.raw, n.isInt)
}

// Uint64 converts the number to uint64. Numbers with a fraction or
// exponent part, negative numbers, and values that overflow the target
// report a *RangeError.
func (n *NumberView) Uint64() (uint64, error) {
	if err := n.valid(); err != nil {
		return 0, err
	}
	return parseUint64(n.raw, n.isInt)
}

// Float64 converts the number to float64. Values whose magnitude
// overflows the target report a *RangeError; precision loss within range
// is not an error.
func (n *NumberView) Float64() (float64, error) {
	if err := n.valid(); err != nil {
		return 0, err
	}
	return parseFloat64(n.raw)
}

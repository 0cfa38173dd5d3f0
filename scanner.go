// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"io"
	"unicode/utf8"

	"go4.org/mem"
)

// The functions in this file recognize single tokens in a byte window.
// They are stateless: each takes the window b, a resume offset n recording
// how far a previous call got, and (where the grammar requires it) a small
// sub-state owned by the caller. A call either completes the token,
// reporting its length in bytes, or returns io.ErrUnexpectedEOF to request
// a longer window, or reports a *scanError at a window-relative offset.
//
// A resume offset returned with io.ErrUnexpectedEOF always lands on a safe
// boundary: never inside an escape sequence, a surrogate pair, or a
// multi-byte rune. Rescanning from it after the window grows revisits at
// most one incomplete element, so scanning stays linear in the input even
// when the source delivers one byte at a time.

// skipSpace returns the offset of the first byte at or after n that is not
// JSON whitespace, or len(b) if the window is all whitespace.
func skipSpace(b []byte, n int) int {
	for n < len(b) && isSpace(b[n]) {
		n++
	}
	return n
}

// scanLiteral matches one of the constants true, false, or null. The
// constant must be delimited: a name byte following it (as in "nullx") is
// an error, anything else ends the token without being consumed.
func scanLiteral(b []byte, n int, lit string) (int, error) {
	want := mem.S(lit)
	for n < want.Len() {
		if n >= len(b) {
			return n, io.ErrUnexpectedEOF
		}
		if b[n] != want.At(n) {
			return n, scanErrorf(n, "unknown constant %q", nameRun(b, n))
		}
		n++
	}
	if n >= len(b) {
		return n, io.ErrUnexpectedEOF // the delimiter is not visible yet
	}
	if isNameByte(b[n]) {
		return n, scanErrorf(n, "unknown constant %q", nameRun(b, n))
	}
	return n, nil
}

// nameRun returns the prefix of b through the run of name bytes containing
// or ending at position i, for use in error messages.
func nameRun(b []byte, i int) []byte {
	e := i
	for e < len(b) && isNameByte(b[e]) {
		e++
	}
	return b[:e]
}

// strFlags records facts about a string body discovered during scanning.
type strFlags struct {
	esc bool // the body contains at least one escape sequence
}

// scanString recognizes a quoted string. b[0] must be the opening quote,
// already verified by the caller, and n must be at least 1. On success the
// reported length includes both quotes.
//
// Escape syntax is validated here, including hex digits and surrogate
// pairing of \uXXXX sequences, but escapes are not decoded; decoding is
// deferred until a view is materialized. Unescaped control bytes and
// malformed UTF-8 are lexical errors.
func scanString(b []byte, n int, f *strFlags) (int, error) {
	i := n
	for i < len(b) {
		c := b[i]
		switch {
		case c == '"':
			return i + 1, nil

		case c == '\\':
			j, err := scanEscape(b, i, f)
			if err != nil {
				return i, err
			}
			i = j

		case c < ' ':
			return i, scanErrorf(i, "unescaped control %q", c)

		case c < utf8.RuneSelf:
			i++

		default:
			if !utf8.FullRune(b[i:]) {
				return i, io.ErrUnexpectedEOF
			}
			r, size := utf8.DecodeRune(b[i:])
			if r == utf8.RuneError && size == 1 {
				return i, scanErrorf(i, "invalid UTF-8 in string")
			}
			i += size
		}
	}
	return i, io.ErrUnexpectedEOF
}

// scanEscape validates one escape sequence beginning at the backslash at
// b[i], returning the offset past its end. io.ErrUnexpectedEOF reports
// that the sequence is cut off by the window; the caller resumes at i.
func scanEscape(b []byte, i int, f *strFlags) (int, error) {
	f.esc = true
	if i+1 >= len(b) {
		return i, io.ErrUnexpectedEOF
	}
	switch e := b[i+1]; e {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return i + 2, nil
	case 'u':
		// fall through to the Unicode escape below
	default:
		return i, scanErrorf(i+1, "invalid %q after escape", e)
	}

	if i+6 > len(b) {
		return i, io.ErrUnexpectedEOF
	}
	v1, err := hex4(b, i+2)
	if err != nil {
		return i, err
	}
	switch {
	case v1 >= 0xDC00 && v1 <= 0xDFFF:
		return i, scanErrorf(i, `unpaired surrogate \u%04X`, v1)

	case v1 >= 0xD800 && v1 <= 0xDBFF:
		// A high surrogate requires a low surrogate escape immediately
		// after it. Verify as much of the partner as is visible before
		// asking for more input, so an unpaired surrogate at the end of a
		// string is reported rather than waited on.
		if i+7 <= len(b) && b[i+6] != '\\' {
			return i, scanErrorf(i, `unpaired surrogate \u%04X`, v1)
		}
		if i+8 <= len(b) && b[i+7] != 'u' {
			return i, scanErrorf(i, `unpaired surrogate \u%04X`, v1)
		}
		if i+12 > len(b) {
			return i, io.ErrUnexpectedEOF
		}
		v2, err := hex4(b, i+8)
		if err != nil {
			return i, err
		}
		if v2 < 0xDC00 || v2 > 0xDFFF {
			return i, scanErrorf(i, `invalid surrogate pair \u%04X\u%04X`, v1, v2)
		}
		return i + 12, nil
	}
	return i + 6, nil
}

// hex4 validates the four hex digits at b[i:i+4], which the caller has
// verified are in the window, and returns their value.
func hex4(b []byte, i int) (uint16, error) {
	var v uint16
	for k, c := range b[i : i+4] {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v += uint16(c - '0')
		case c >= 'a' && c <= 'f':
			v += uint16(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			v += uint16(c - 'A' + 10)
		default:
			return 0, scanErrorf(i+k, "invalid Unicode escape: not a hex digit %q", c)
		}
	}
	return v, nil
}

// A numPhase tracks how much of the numeric grammar has been consumed, so
// that a scan interrupted by the end of the window can resume without
// revisiting any byte.
type numPhase byte

const (
	numStart   numPhase = iota // nothing consumed yet
	numNeg                     // consumed a leading minus, a digit is required
	numZero                    // consumed a leading zero ending the integer part
	numInt                     // within the integer digits
	numFracDot                 // consumed the decimal point, a digit is required
	numFrac                    // within the fractional digits
	numExpE                    // consumed the exponent marker, a sign or digit is required
	numExpSign                 // consumed the exponent sign, a digit is required
	numExp                     // within the exponent digits
)

// A numState is the resumable sub-state of a number scan.
type numState struct {
	phase numPhase
	float bool // the number has a fraction or exponent part
}

// done reports whether the number may legally end at the current phase.
// Numbers are not self-delimiting: a scan is complete only when done
// coincides with a non-number byte or the end of input.
func (st *numState) done() bool {
	switch st.phase {
	case numZero, numInt, numFrac, numExp:
		return true
	}
	return false
}

// scanNumber recognizes a number. b[0] must be a minus sign or digit,
// already verified by the caller. The byte that delimits the number is not
// consumed; at the end of the window the caller must extend and resume, or
// accept the token if no input remains and st.done reports true.
func scanNumber(b []byte, n int, st *numState) (int, error) {
	for n < len(b) {
		c := b[n]
		switch st.phase {
		case numStart:
			switch {
			case c == '-':
				st.phase = numNeg
			case c == '0':
				st.phase = numZero
			default: // the caller verified c is a digit
				st.phase = numInt
			}

		case numNeg:
			switch {
			case c == '0':
				st.phase = numZero
			case isDigit(c):
				st.phase = numInt
			default:
				return n, scanErrorf(n, "got %q, want digit", c)
			}

		case numZero, numInt:
			switch {
			case isDigit(c):
				if st.phase == numZero {
					return n, scanErrorf(n, "extra leading zeroes")
				}
			case c == '.':
				st.phase, st.float = numFracDot, true
			case c == 'e' || c == 'E':
				st.phase, st.float = numExpE, true
			default:
				return n, nil
			}

		case numFracDot:
			if !isDigit(c) {
				return n, scanErrorf(n, "no digits after decimal point")
			}
			st.phase = numFrac

		case numFrac:
			switch {
			case isDigit(c):
			case c == 'e' || c == 'E':
				st.phase = numExpE
			default:
				return n, nil
			}

		case numExpE:
			switch {
			case c == '+' || c == '-':
				st.phase = numExpSign
			case isDigit(c):
				st.phase = numExp
			default:
				return n, scanErrorf(n, "missing exponent digits")
			}

		case numExpSign:
			if !isDigit(c) {
				return n, scanErrorf(n, "missing exponent digits")
			}
			st.phase = numExp

		case numExp:
			if !isDigit(c) {
				return n, nil
			}
		}
		n++
	}
	return n, io.ErrUnexpectedEOF
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isNameByte(c byte) bool { return c >= 'a' && c <= 'z' }

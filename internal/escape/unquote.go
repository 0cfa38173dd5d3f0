// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the JSON encoding of a string.
// The input must have the enclosing double quotation marks already
// removed.
//
// Escape sequences are replaced with their unescaped equivalents,
// including \uXXXX surrogate pairs, which decode to a single rune.
// Unquote reports an error for an invalid or incomplete escape sequence
// and for an unpaired surrogate half.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	for src.Len() != 0 {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
		dec = mem.Append(dec, src.SliceTo(i))

		r, n, err := decodeEscape(src.SliceFrom(i))
		if err != nil {
			return nil, err
		}
		var rbuf [utf8.UTFMax]byte
		k := utf8.EncodeRune(rbuf[:], r)
		dec = append(dec, rbuf[:k]...)
		src = src.SliceFrom(i + n)
	}
	return dec, nil
}

// UnquoteTo streams the decoded form of a JSON string body into w,
// decoding escape sequences incrementally. Verbatim runs are copied
// through a small fixed buffer, so decoding does not allocate memory
// proportional to the size of the string. It reports the total number of
// bytes written to w.
func UnquoteTo(w io.Writer, src mem.RO) (int64, error) {
	var written int64
	for src.Len() != 0 {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			n, err := writeRO(w, src)
			return written + n, err
		}
		if i > 0 {
			n, err := writeRO(w, src.SliceTo(i))
			written += n
			if err != nil {
				return written, err
			}
			src = src.SliceFrom(i)
		}

		r, n, err := decodeEscape(src)
		if err != nil {
			return written, err
		}
		var rbuf [utf8.UTFMax]byte
		k := utf8.EncodeRune(rbuf[:], r)
		m, err := w.Write(rbuf[:k])
		written += int64(m)
		if err != nil {
			return written, err
		}
		src = src.SliceFrom(n)
	}
	return written, nil
}

// decodeEscape decodes the escape sequence at the start of src, whose
// first byte must be a backslash, reporting the decoded rune and the
// length of the sequence in bytes.
func decodeEscape(src mem.RO) (rune, int, error) {
	if src.Len() < 2 {
		return 0, 0, errors.New("incomplete escape sequence")
	}
	switch c := src.At(1); c {
	case '"', '\\', '/':
		return rune(c), 2, nil
	case 'b':
		return '\b', 2, nil
	case 'f':
		return '\f', 2, nil
	case 'n':
		return '\n', 2, nil
	case 'r':
		return '\r', 2, nil
	case 't':
		return '\t', 2, nil
	case 'u':
		if src.Len() < 6 {
			return 0, 0, errors.New("incomplete Unicode escape")
		}
		v1, err := parseHex(src.SliceFrom(2).SliceTo(4))
		if err != nil {
			return 0, 0, err
		}
		r1 := rune(v1)
		if !utf16.IsSurrogate(r1) {
			return r1, 6, nil
		}

		// A surrogate half is only valid as the high half of a pair,
		// immediately followed by the escape of the low half.
		if src.Len() >= 12 && src.At(6) == '\\' && src.At(7) == 'u' {
			v2, err := parseHex(src.SliceFrom(8).SliceTo(4))
			if err != nil {
				return 0, 0, err
			}
			if r := utf16.DecodeRune(r1, rune(v2)); r != utf8.RuneError {
				return r, 12, nil
			}
		}
		return 0, 0, fmt.Errorf(`unpaired surrogate \u%04X`, v1)

	default:
		return 0, 0, fmt.Errorf("invalid %q after escape", c)
	}
}

// writeRO copies src into w through a small stack buffer.
func writeRO(w io.Writer, src mem.RO) (int64, error) {
	var buf [512]byte
	var written int64
	for src.Len() > 0 {
		n := min(src.Len(), len(buf))
		m, err := w.Write(mem.Append(buf[:0], src.SliceTo(n)))
		written += int64(m)
		if err != nil {
			return written, err
		}
		src = src.SliceFrom(n)
	}
	return written, nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}

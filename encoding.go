// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"errors"
	"strconv"

	"github.com/creachadair/jstream/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return `"` + string(escape.Quote(mem.S(src))) + `"` }

// Unquote decodes a JSON string value.  Double quotation marks are
// removed, and escape sequences are replaced with their unescaped
// equivalents. Unquote reports an error for an invalid or incomplete
// escape sequence and for an unpaired surrogate half.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || src[0] != '"' || src[len(src)-1] != '"' {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.S(src[1 : len(src)-1]))
}

// unquoteText decodes the body of a string token into an owned string.
// Bodies the scanner marked escape-free are copied directly.
func unquoteText(raw []byte, esc bool) (string, error) {
	if !esc {
		return string(raw), nil
	}
	dec, err := escape.Unquote(mem.B(raw))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}

// rangeErr builds the RangeError for a failed numeric conversion,
// unwrapping strconv's error wrapper so the strconv sentinels remain
// reachable through errors.Is.
func rangeErr(raw []byte, target string, err error) error {
	re := &RangeError{Value: string(raw), Target: target}
	if ne, ok := err.(*strconv.NumError); ok {
		re.err = ne.Err
	}
	return re
}

func parseInt64(raw []byte, isInt bool) (int64, error) {
	if !isInt {
		return 0, &RangeError{Value: string(raw), Target: "int64"}
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, rangeErr(raw, "int64", err)
	}
	return v, nil
}

func parseUint64(raw []byte, isInt bool) (uint64, error) {
	if !isInt {
		return 0, &RangeError{Value: string(raw), Target: "uint64"}
	}
	v, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, rangeErr(raw, "uint64", err)
	}
	return v, nil
}

func parseFloat64(raw []byte) (float64, error) {
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, rangeErr(raw, "float64", err)
	}
	return v, nil
}

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jstream implements a streaming one-pass JSON parser.
//
// The parser reads its input incrementally through a fixed-size buffer
// and delivers values as the caller asks for them, so an input much
// larger than memory can be decoded without materializing it. Memory use
// is bounded by the buffer size and the nesting depth of the input, not
// by the size of the document.
//
// # Parsing
//
// Construct a Parser from an io.Reader and call its Next method to
// iterate over the top-level values of the input. Next returns io.EOF
// when the input has been fully consumed:
//
//	p := jstream.NewParser(input, nil)
//	for {
//	   v, err := p.Next()
//	   if err == io.EOF {
//	      break
//	   } else if err != nil {
//	      log.Fatalf("Parse failed: %v", err)
//	   }
//	   // ... examine v
//	}
//
// An input may comprise multiple values separated by whitespace, and
// Next delivers each in turn.
//
// Once the parser has reported an error other than io.EOF, the input is
// no longer trustworthy, and all further calls to Next report the same
// error. Use Err to recover the error state of the parser at rest.
//
// # Values and views
//
// Each Value reports its Kind, and its contents are exposed through
// accessor methods. The accessors panic if they are invoked on a value
// of the wrong kind, so check the kind first:
//
//	switch v.Kind() {
//	case jstream.String:
//	   text, err := v.String().Text()
//	   // ...
//	case jstream.Number:
//	   n, err := v.Number().Int64()
//	   // ...
//	case jstream.Bool:
//	   t := v.Bool()
//	   // ...
//	}
//
// String and number contents are exposed as views. A view is a window on
// the parser's internal buffer, and it remains usable only until the
// parser moves to another token; after that its methods report
// ErrViewExpired. Decoding is deferred until the view is read: a program
// that skips a value never pays to decode it.
//
// The Raw method of a view aliases the internal buffer and costs
// nothing; Text and the numeric conversions decode on demand. To stream
// a large string out of the parser without buffering it, use WriteTo.
//
// # Cursors
//
// Array and Object values do not materialize their contents. Instead
// they yield a cursor that delivers one element at a time:
//
//	arr := v.Array()
//	for {
//	   elt, err := arr.Next()
//	   if err == io.EOF {
//	      break
//	   } else if err != nil {
//	      return err
//	   }
//	   // ... examine elt
//	}
//
// A cursor is valid until its container is exhausted or abandoned. It is
// safe to stop reading a cursor at any point: when an enclosing cursor
// advances, the parser skips whatever remains of the abandoned
// container, validating its syntax without decoding its contents. Use
// Close to skip the remainder of a container explicitly.
//
// # Streaming
//
// The Stream type adapts the parser to an event-driven interface. The
// stream works by calling methods on a Handler value to report the
// structure of the input:
//
//	s := jstream.NewStream(input, nil)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// To parse a single value from the front of the input, call ParseOne.
// This method returns io.EOF if no further values are available.
//
// # Errors
//
// Parse failures are reported with the byte offset of the offending
// input. A malformed token is reported as a *LexicalError; a well-formed
// token in a position the grammar does not allow is a *StructuralError.
// Input that ends in the middle of a value wraps io.ErrUnexpectedEOF.
// Errors from the underlying reader are propagated unaltered.
//
// The parser checks the input strictly: it accepts only the JSON grammar
// of RFC 8259, rejects invalid UTF-8 in string values, and requires
// Unicode escapes for surrogate code points to be correctly paired.
package jstream

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import "io"

// cursor is the state shared by ArrayCursor and ObjectCursor: the parser
// that issued it, the depth of the container frame it iterates, the frame
// identity used to detect stale handles, and a latch recording that the
// container has been fully consumed.
type cursor struct {
	p     *Parser
	depth int
	id    uint64
	done  bool
}

func (c *cursor) resume() error {
	if c.done {
		return io.EOF
	}
	return c.p.resume(c)
}

func (c *cursor) close() error {
	if c.done {
		return nil
	}
	if c.p.err != nil {
		return c.p.err
	}
	if len(c.p.stack) < c.depth || c.p.stack[c.depth-1].id != c.id {
		// The frame is already gone: an operation on an enclosing cursor
		// or the parser closed it. Nothing further to consume.
		c.done = true
		return nil
	}
	if err := c.p.skipTo(c.depth - 1); err != nil {
		return err
	}
	c.done = true
	return nil
}

// An ArrayCursor traverses the elements of one array value. It is bound
// to the Parser that produced it: advancing the cursor advances the
// parser. A cursor is valid until its container is closed, either by
// draining it, by calling Close, or implicitly by advancing any enclosing
// cursor; after that its methods report io.EOF (if it was consumed) or
// ErrCursorExpired (if its container was closed from outside).
type ArrayCursor struct {
	cursor
}

// Next returns the next element of the array, or io.EOF when the closing
// bracket has been consumed. If the previous element was a container the
// caller did not fully traverse, its remainder is discarded first.
func (a *ArrayCursor) Next() (Value, error) {
	if err := a.resume(); err != nil {
		return Value{}, err
	}
	_, v, closed, err := a.p.step(true)
	if err != nil {
		return Value{}, err
	}
	if closed {
		a.done = true
		return Value{}, io.EOF
	}
	return v, nil
}

// Close consumes and discards the rest of the array through its closing
// bracket, leaving the parser positioned after the array so iteration of
// its siblings can continue. The discarded contents are scanned
// structurally, never decoded. Closing an exhausted or already-closed
// cursor is a no-op; Close is safe to defer.
func (a *ArrayCursor) Close() error { return a.close() }

// An ObjectCursor traverses the members of one object value. It is bound
// to the Parser that produced it: advancing the cursor advances the
// parser. A cursor is valid until its container is closed, either by
// draining it, by calling Close, or implicitly by advancing any enclosing
// cursor; after that its methods report io.EOF (if it was consumed) or
// ErrCursorExpired (if its container was closed from outside).
type ObjectCursor struct {
	cursor
}

// Next returns the next member of the object as a decoded key and its
// value, or io.EOF when the closing brace has been consumed. If the
// previous member's value was a container the caller did not fully
// traverse, its remainder is discarded first.
func (o *ObjectCursor) Next() (string, Value, error) {
	if err := o.resume(); err != nil {
		return "", Value{}, err
	}
	key, v, closed, err := o.p.step(true)
	if err != nil {
		return "", Value{}, err
	}
	if closed {
		o.done = true
		return "", Value{}, io.EOF
	}
	return key, v, nil
}

// Close consumes and discards the rest of the object through its closing
// brace, leaving the parser positioned after the object so iteration of
// its siblings can continue. The discarded contents are scanned
// structurally, never decoded. Closing an exhausted or already-closed
// cursor is a no-op; Close is safe to defer.
func (o *ObjectCursor) Close() error { return o.close() }

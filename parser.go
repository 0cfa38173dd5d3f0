// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"io"
)

// Options are configuration settings for a Parser. A nil *Options is
// ready for use and provides the default values described.
type Options struct {
	// MaxDepth is the maximum container nesting depth the parser accepts.
	// Input nested more deeply fails with a StructuralError at the open
	// token that would exceed the limit, before any state is allocated
	// for it. If zero or negative, the default is 512.
	MaxDepth int

	// BufferSize is the initial size in bytes of the refill buffer.
	// If zero or negative, the default is 4096.
	BufferSize int

	// MaxBufferSize limits how large the refill buffer may grow to hold a
	// single token. A token whose bytes exceed this size (for example one
	// very long string) fails with ErrBufferLimit instead of growing the
	// buffer without bound. If zero or negative, no limit is applied.
	MaxBufferSize int
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return 512
	}
	return o.MaxDepth
}

func (o *Options) bufferSize() int {
	if o == nil || o.BufferSize <= 0 {
		return defaultBufferSize
	}
	return o.BufferSize
}

func (o *Options) maxBufferSize() int {
	if o == nil || o.MaxBufferSize <= 0 {
		return 0
	}
	return o.MaxBufferSize
}

// An expect records what the grammar permits at the parser's current
// position. Together with the frame stack it fully determines the parse
// state, so the parser never depends on call-stack position: input of any
// nesting depth is handled with constant goroutine stack.
type expect byte

const (
	expTop         expect = iota // at top level, before a value
	expArrayFirst                // after "[": a value or "]"
	expArrayValue                // after "," in an array: a value is required
	expArrayNext                 // after an array element: "," or "]"
	expObjectFirst               // after "{": a key or "}"
	expObjectKey                 // after "," in an object: a key is required
	expObjectColon               // after a key: ":" is required
	expObjectValue               // after ":": a value is required
	expObjectNext                // after a member value: "," or "}"
)

var expectStr = [...]string{
	expTop:         "a value",
	expArrayFirst:  `a value or "]"`,
	expArrayValue:  "a value",
	expArrayNext:   `"," or "]"`,
	expObjectFirst: `an object key or "}"`,
	expObjectKey:   "an object key",
	expObjectColon: `":"`,
	expObjectValue: "a value",
	expObjectNext:  `"," or "}"`,
}

func (e expect) label() string { return expectStr[e] }

// A frame records one open container. The id identifies the frame to the
// cursor iterating it, so a cursor whose container has since been closed
// fails fast instead of silently reading its parent's structure.
type frame struct {
	id  uint64
	obj bool
}

// A Parser is a pull-driven decoder reading a stream of JSON values from
// an io.Reader under a fixed memory budget. Each call to Next returns the
// next top-level value; container values are traversed through the
// cursors they carry. The parser holds only the bytes of the current
// token and one frame per open container, so memory use is independent of
// the total input size.
//
// A Parser is not safe for concurrent use. After any error other than a
// stale view or cursor access, the parser is stopped: every subsequent
// operation reports the same error.
type Parser struct {
	rd       *reader
	stack    []frame
	exp      expect
	depthCap int

	gen     uint64 // bumped when buffered value bytes are released; views check it
	lastID  uint64 // frame id counter
	pending int    // bytes of the last scalar token, awaiting release

	err error // terminal state; once set, all operations report it
}

// NewParser constructs a parser that reads from r. A nil opts provides
// default values as described on Options.
func NewParser(r io.Reader, opts *Options) *Parser {
	return &Parser{
		rd:       newReader(r, opts.bufferSize(), opts.maxBufferSize()),
		depthCap: opts.maxDepth(),
		exp:      expTop,
	}
}

// Next returns the next top-level value of the input, or io.EOF when the
// input is exhausted. The input may contain any number of
// whitespace-separated top-level values; each call delivers the next.
//
// If container values from a previous call are still open, Next first
// consumes their unread remainders, so the parser is positioned at the
// next top-level value regardless of how much of the previous one the
// caller examined.
func (p *Parser) Next() (Value, error) {
	if p.err != nil {
		return Value{}, p.err
	}
	if err := p.skipTo(0); err != nil {
		return Value{}, err
	}
	_, v, _, err := p.step(true)
	return v, err
}

// Err returns the error that stopped the parser, or nil if the parser has
// not stopped. At a clean end of input the result is io.EOF.
func (p *Parser) Err() error { return p.err }

// Depth reports the number of containers currently open.
func (p *Parser) Depth() int { return len(p.stack) }

// InputOffset returns the absolute byte offset of the next input byte the
// parser will examine.
func (p *Parser) InputOffset() int64 {
	return p.rd.offset() + int64(p.pending)
}

// A Value is a single JSON value produced by a Parser or one of its
// cursors. Kind reports which accessor applies; calling an accessor of
// any other kind panics. Scalar accessors return self-contained data or
// views; Array and Object return the cursor that traverses the value's
// children.
type Value struct {
	kind Kind
	b    bool
	num  *NumberView
	str  *StringView
	arr  *ArrayCursor
	obj  *ObjectCursor
}

// Kind reports the kind of JSON value v represents.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the value of v. It panics if v is not a Bool.
func (v Value) Bool() bool {
	if v.kind != Bool {
		panic("value is not a bool")
	}
	return v.b
}

// Number returns the number view of v. It panics if v is not a Number.
func (v Value) Number() *NumberView {
	if v.kind != Number {
		panic("value is not a number")
	}
	return v.num
}

// String returns the string view of v. It panics if v is not a String.
func (v Value) String() *StringView {
	if v.kind != String {
		panic("value is not a string")
	}
	return v.str
}

// Array returns the cursor traversing the elements of v.
// It panics if v is not an Array.
func (v Value) Array() *ArrayCursor {
	if v.kind != Array {
		panic("value is not an array")
	}
	return v.arr
}

// Object returns the cursor traversing the members of v.
// It panics if v is not an Object.
func (v Value) Object() *ObjectCursor {
	if v.kind != Object {
		panic("value is not an object")
	}
	return v.obj
}

// fail records err as the parser's terminal state and returns it.
func (p *Parser) fail(err error) error {
	if p.err == nil {
		p.err = err
	}
	return p.err
}

// scanFail rewrites a window-relative scan error to a LexicalError at its
// absolute input offset, and stops the parser with it.
func (p *Parser) scanFail(err error) error {
	if se, ok := err.(*scanError); ok {
		return p.fail(&LexicalError{Offset: p.rd.offset() + int64(se.off), Message: se.msg})
	}
	return p.fail(err)
}

func (p *Parser) badByte(c byte) error {
	return p.fail(&StructuralError{
		Offset:  p.rd.offset(),
		Message: fmt.Sprintf("expected %s, got %q", p.exp.label(), c),
	})
}

func (p *Parser) badEOF() error {
	return p.fail(&StructuralError{
		Offset:  p.rd.offset(),
		Message: fmt.Sprintf("expected %s, got end of input", p.exp.label()),
		err:     io.ErrUnexpectedEOF,
	})
}

// invalidate releases the bytes of the most recently returned scalar token
// and expires all views referring to them.
func (p *Parser) invalidate() {
	if p.pending > 0 {
		p.rd.release(p.pending)
		p.pending = 0
	}
	p.gen++
}

// peek returns the first byte of the unconsumed input, skipping
// whitespace and refilling the window as needed. The byte is not
// consumed. At the end of input peek returns io.EOF.
func (p *Parser) peek() (byte, error) {
	for {
		if n := skipSpace(p.rd.window(), 0); n > 0 {
			p.rd.release(n)
		}
		if p.rd.avail() > 0 {
			return p.rd.window()[0], nil
		}
		if _, err := p.rd.extend(); err != nil {
			return 0, err
		}
	}
}

// step advances the parser to its next value boundary: the next value at
// the innermost open container (or at top level), or the close of that
// container, reported with closed true after its frame is popped. For
// object members the decoded key accompanies the value. When emit is
// false, scalar tokens are consumed without decoding and no views or
// cursors are constructed; this is the structural skip used to discard
// abandoned containers.
//
// The caller must ensure the stack depth equals the level it iterates
// before calling step; cursors do this via resume.
func (p *Parser) step(emit bool) (key string, v Value, closed bool, err error) {
	p.invalidate()
	for {
		c, err := p.peek()
		if err == io.EOF {
			if p.exp == expTop {
				return "", Value{}, false, p.fail(io.EOF)
			}
			return "", Value{}, false, p.badEOF()
		} else if err != nil {
			return "", Value{}, false, p.fail(err)
		}

		switch p.exp {
		case expTop, expArrayValue, expObjectValue:
			v, err := p.value(c, emit)
			return key, v, false, err

		case expArrayFirst:
			if c == ']' {
				p.pop()
				return "", Value{}, true, nil
			}
			v, err := p.value(c, emit)
			return "", v, false, err

		case expArrayNext:
			switch c {
			case ',':
				p.rd.release(1)
				p.exp = expArrayValue
			case ']':
				p.pop()
				return "", Value{}, true, nil
			default:
				return "", Value{}, false, p.badByte(c)
			}

		case expObjectFirst, expObjectKey:
			if c == '}' && p.exp == expObjectFirst {
				p.pop()
				return "", Value{}, true, nil
			}
			if c != '"' {
				return "", Value{}, false, p.badByte(c)
			}
			key, err = p.scanKey(emit)
			if err != nil {
				return "", Value{}, false, err
			}
			p.exp = expObjectColon

		case expObjectColon:
			if c != ':' {
				return "", Value{}, false, p.badByte(c)
			}
			p.rd.release(1)
			p.exp = expObjectValue

		case expObjectNext:
			switch c {
			case ',':
				p.rd.release(1)
				p.exp = expObjectKey
			case '}':
				p.pop()
				return "", Value{}, true, nil
			default:
				return "", Value{}, false, p.badByte(c)
			}
		}
	}
}

// value scans the single value whose first byte c is at the start of the
// window. Containers push a frame and return a cursor; scalars are
// scanned to their full extent, with their bytes left buffered for the
// views handed out. The expectation moves to the enclosing container's
// after-value state.
func (p *Parser) value(c byte, emit bool) (Value, error) {
	switch {
	case c == '{':
		if err := p.push(true); err != nil {
			return Value{}, err
		}
		if !emit {
			return Value{}, nil
		}
		return Value{kind: Object, obj: &ObjectCursor{cursor: p.bind()}}, nil

	case c == '[':
		if err := p.push(false); err != nil {
			return Value{}, err
		}
		if !emit {
			return Value{}, nil
		}
		return Value{kind: Array, arr: &ArrayCursor{cursor: p.bind()}}, nil

	case c == '"':
		n, flags, err := p.scanStringToken()
		if err != nil {
			return Value{}, err
		}
		p.exp = p.afterValue()
		if !emit {
			p.rd.release(n)
			return Value{}, nil
		}
		p.pending = n
		body := p.rd.window()[1 : n-1]
		return Value{kind: String, str: &StringView{p: p, gen: p.gen, raw: body, esc: flags.esc}}, nil

	case c == '-' || isDigit(c):
		n, st, err := p.scanNumberToken()
		if err != nil {
			return Value{}, err
		}
		p.exp = p.afterValue()
		if !emit {
			p.rd.release(n)
			return Value{}, nil
		}
		p.pending = n
		return Value{kind: Number, num: &NumberView{p: p, gen: p.gen, raw: p.rd.window()[:n], isInt: !st.float}}, nil

	case c == 't':
		if err := p.scanLiteralToken("true"); err != nil {
			return Value{}, err
		}
		p.exp = p.afterValue()
		return Value{kind: Bool, b: true}, nil

	case c == 'f':
		if err := p.scanLiteralToken("false"); err != nil {
			return Value{}, err
		}
		p.exp = p.afterValue()
		return Value{kind: Bool}, nil

	case c == 'n':
		if err := p.scanLiteralToken("null"); err != nil {
			return Value{}, err
		}
		p.exp = p.afterValue()
		return Value{kind: Null}, nil

	case c == '}' || c == ']' || c == ',' || c == ':':
		return Value{}, p.badByte(c)

	default:
		return Value{}, p.fail(&LexicalError{
			Offset:  p.rd.offset(),
			Message: fmt.Sprintf("unexpected %q", c),
		})
	}
}

// push opens a container frame, consuming its open token. The depth cap
// is checked before the frame is allocated.
func (p *Parser) push(obj bool) error {
	if len(p.stack) >= p.depthCap {
		return p.fail(&StructuralError{
			Offset:  p.rd.offset(),
			Message: fmt.Sprintf("exceeded maximum nesting depth (%d)", p.depthCap),
		})
	}
	p.rd.release(1)
	p.lastID++
	p.stack = append(p.stack, frame{id: p.lastID, obj: obj})
	if obj {
		p.exp = expObjectFirst
	} else {
		p.exp = expArrayFirst
	}
	return nil
}

// pop closes the innermost container, consuming its close token, and
// restores the enclosing container's after-value state.
func (p *Parser) pop() {
	p.rd.release(1)
	p.stack = p.stack[:len(p.stack)-1]
	p.exp = p.afterValue()
}

// afterValue returns the expectation that follows a completed value at
// the current depth.
func (p *Parser) afterValue() expect {
	if len(p.stack) == 0 {
		return expTop
	}
	if p.stack[len(p.stack)-1].obj {
		return expObjectNext
	}
	return expArrayNext
}

// bind captures the innermost frame for a new cursor.
func (p *Parser) bind() cursor {
	top := p.stack[len(p.stack)-1]
	return cursor{p: p, depth: len(p.stack), id: top.id}
}

// resume prepares the parser to advance the container c iterates: it
// verifies c's frame is still open and consumes any deeper containers the
// caller abandoned, so the parser stands exactly at c's level.
func (p *Parser) resume(c *cursor) error {
	if p.err != nil {
		return p.err
	}
	if len(p.stack) < c.depth || p.stack[c.depth-1].id != c.id {
		return ErrCursorExpired
	}
	return p.skipTo(c.depth)
}

// skipTo structurally consumes input until the stack is depth frames
// deep, driving abandoned containers through their matching close tokens.
// Skipped scalars are scanned for extent and released without decoding,
// so the cost of a skip is bounded by the size of the skipped
// substructure and the buffer never retains more than one token of it.
func (p *Parser) skipTo(depth int) error {
	for len(p.stack) > depth {
		if _, _, _, err := p.step(false); err != nil {
			return err
		}
	}
	return nil
}

// scanKey scans the object key at the start of the window, decoding it to
// an owned string when emit is true. Keys are decoded eagerly: they are
// nearly always short, and tying their validity to the member value's
// traversal would make every object walk a two-step dance.
func (p *Parser) scanKey(emit bool) (string, error) {
	n, flags, err := p.scanStringToken()
	if err != nil {
		return "", err
	}
	var key string
	if emit {
		key, err = unquoteText(p.rd.window()[1:n-1], flags.esc)
		if err != nil {
			return "", p.fail(err)
		}
	}
	p.rd.release(n)
	return key, nil
}

// scanStringToken scans the string token at the start of the window,
// refilling as needed, and reports its length including both quotes.
func (p *Parser) scanStringToken() (int, strFlags, error) {
	var flags strFlags
	n := 1 // the opening quote
	for {
		var err error
		n, err = scanString(p.rd.window(), n, &flags)
		switch {
		case err == nil:
			return n, flags, nil
		case err == io.ErrUnexpectedEOF:
			if _, eerr := p.rd.extend(); eerr != nil {
				if eerr == io.EOF {
					return 0, flags, p.fail(&LexicalError{
						Offset:  p.rd.offset() + int64(p.rd.avail()),
						Message: "unexpected end of input in string",
						err:     io.ErrUnexpectedEOF,
					})
				}
				return 0, flags, p.fail(eerr)
			}
		default:
			return 0, flags, p.scanFail(err)
		}
	}
}

// scanNumberToken scans the number token at the start of the window,
// refilling as needed, and reports its length. End of input is a valid
// delimiter when the grammar permits the number to end there.
func (p *Parser) scanNumberToken() (int, numState, error) {
	var st numState
	var n int
	for {
		var err error
		n, err = scanNumber(p.rd.window(), n, &st)
		switch {
		case err == nil:
			return n, st, nil
		case err == io.ErrUnexpectedEOF:
			if _, eerr := p.rd.extend(); eerr != nil {
				if eerr == io.EOF {
					if st.done() {
						return n, st, nil
					}
					return 0, st, p.fail(&LexicalError{
						Offset:  p.rd.offset() + int64(n),
						Message: "unexpected end of input in number",
						err:     io.ErrUnexpectedEOF,
					})
				}
				return 0, st, p.fail(eerr)
			}
		default:
			return 0, st, p.scanFail(err)
		}
	}
}

// scanLiteralToken scans and consumes one of the constants true, false,
// or null at the start of the window. Constants produce no views, so
// their bytes are released immediately.
func (p *Parser) scanLiteralToken(lit string) error {
	var n int
	for {
		var err error
		n, err = scanLiteral(p.rd.window(), n, lit)
		switch {
		case err == nil:
			p.rd.release(n)
			return nil
		case err == io.ErrUnexpectedEOF:
			if _, eerr := p.rd.extend(); eerr != nil {
				if eerr == io.EOF {
					if n == len(lit) {
						p.rd.release(n)
						return nil
					}
					return p.fail(&LexicalError{
						Offset:  p.rd.offset() + int64(n),
						Message: fmt.Sprintf("unknown constant %q", p.rd.window()[:n]),
						err:     io.ErrUnexpectedEOF,
					})
				}
				return p.fail(eerr)
			}
		default:
			return p.scanFail(err)
		}
	}
}

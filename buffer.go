// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import "io"

// Default and minimum capacities for the refill buffer.
const (
	defaultBufferSize = 4096
	minBufferSize     = 64
)

// A reader is the refill buffer mediating between the parser and its input.
// It maintains a window of unconsumed bytes, data[off:], refilled from src
// on demand. Bytes before the window have been consumed and are discarded
// when the region is compacted, so the resident size is proportional to
// the largest single in-flight token, not to the total input size.
//
// Invariant: 0 <= off <= len(data) <= cap(data).
type reader struct {
	data []byte // buffered bytes; the window is data[off:]
	off  int    // consumed boundary
	src  io.Reader
	err  error // deferred source error, delivered once the window drains
	base int64 // absolute input offset of data[0]
	max  int   // capacity limit for the region; 0 means no limit
}

func newReader(src io.Reader, size, max int) *reader {
	if size < minBufferSize {
		size = minBufferSize
	}
	if max > 0 && size > max {
		size = max
	}
	return &reader{data: make([]byte, 0, size), src: src, max: max}
}

// window returns the unconsumed bytes currently buffered, without copying.
// The contents are valid until the next call to extend.
func (r *reader) window() []byte { return r.data[r.off:] }

// avail reports the number of unconsumed bytes currently buffered.
func (r *reader) avail() int { return len(r.data) - r.off }

// release marks the next n bytes of the window as consumed.
func (r *reader) release(n int) { r.off += n }

// offset returns the absolute input offset of the start of the window.
func (r *reader) offset() int64 { return r.base + int64(r.off) }

// extend lengthens the window by at least one byte, reporting the number
// of bytes added. At the end of input it returns 0, io.EOF. Errors from
// the source are deferred until the bytes read alongside them have been
// delivered; they are then returned verbatim.
//
// If the region is full, consumed bytes are discarded by sliding the
// window to the front. The region grows only when the window itself
// occupies all of it, meaning a single token is larger than the region;
// growth beyond max fails with ErrBufferLimit.
func (r *reader) extend() (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if len(r.data) == cap(r.data) {
		if err := r.makeRoom(); err != nil {
			r.err = err
			return 0, err
		}
	}
	for {
		n, err := r.src.Read(r.data[len(r.data):cap(r.data)])
		r.data = r.data[:len(r.data)+n]
		if n > 0 {
			if err != nil {
				r.err = err
			}
			return n, nil
		}
		if err != nil {
			r.err = err
			return 0, err
		}
		// A source may return 0, nil; by the io.Reader contract this is
		// not end of input, so try again.
	}
}

func (r *reader) makeRoom() error {
	if r.off > 0 {
		n := copy(r.data, r.data[r.off:])
		r.base += int64(r.off)
		r.data = r.data[:n]
		r.off = 0
		return nil
	}
	size := 2 * cap(r.data)
	if r.max > 0 && size > r.max {
		size = r.max
		if size <= cap(r.data) {
			return ErrBufferLimit
		}
	}
	data := make([]byte, len(r.data), size)
	copy(data, r.data)
	r.data = data
	return nil
}

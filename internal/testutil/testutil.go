// Package testutil defines support code for unit tests.
package testutil

import "io"

// A ChunkReader delivers the bytes of its input in chunks of scripted
// sizes, so that a consumer observes the input split at chosen byte
// boundaries. Once the script is exhausted, any remaining input is
// delivered one byte at a time. A non-positive size in the script
// produces a read that returns 0 bytes without error, which the
// io.Reader contract permits.
type ChunkReader struct {
	input string
	sizes []int
}

// NewChunkReader constructs a reader that delivers the bytes of input in
// chunks of the given sizes. A chunk larger than the destination buffer
// of a Read call is truncated to fit.
func NewChunkReader(input string, sizes ...int) *ChunkReader {
	return &ChunkReader{input: input, sizes: sizes}
}

// Read implements the io.Reader interface.
func (c *ChunkReader) Read(p []byte) (int, error) {
	if len(c.input) == 0 {
		return 0, io.EOF
	}
	n := 1
	if len(c.sizes) != 0 {
		n = c.sizes[0]
		c.sizes = c.sizes[1:]
		if n <= 0 {
			return 0, nil
		}
	}
	n = min(n, len(c.input), len(p))
	copy(p, c.input[:n])
	c.input = c.input[n:]
	return n, nil
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"bufio"
	"io"
)

// Reader adapts an io.Reader to a [Source]. It cannot wait for input:
// EOF and reads block on the underlying reader. Use it for in-memory
// data and for files that are always readable.
type Reader struct {
	br  *bufio.Reader
	err error // failure seen by EOF, reported by the next read
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// EOF reports whether r has no more bytes. It blocks until at least one
// byte is buffered or the reader fails. A failure other than io.EOF is
// not end of stream; the next read returns it.
func (r *Reader) EOF() bool {
	if r.err != nil {
		return false
	}
	_, err := r.br.Peek(1)
	if err == nil || err == io.EOF {
		return err == io.EOF
	}
	r.err = err
	return false
}

// ReadChunk reads up to len(p) bytes, at most one read of the
// underlying reader.
func (r *Reader) ReadChunk(p []byte) (int, error) {
	if err := r.takeErr(); err != nil {
		return 0, err
	}
	return r.br.Read(p)
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.takeErr(); err != nil {
		return 0, err
	}
	return r.br.ReadByte()
}

func (r *Reader) takeErr() error {
	err := r.err
	r.err = nil
	return err
}

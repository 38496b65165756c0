// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"io"
	"os"
	"time"

	"code.hybscloud.com/iox"
	"github.com/pkg/errors"
)

// DeadlineConn is a reader with read deadlines, such as a net.Conn or a
// pollable *os.File.
type DeadlineConn interface {
	io.Reader
	SetReadDeadline(t time.Time) error
}

// DeadlineReader adapts a [DeadlineConn] to a [Source]. Waiting is
// implemented by reading ahead under a read deadline; bytes read that
// way are kept until the next read.
type DeadlineReader struct {
	c       DeadlineConn
	buf     []byte
	pending []byte
	eof     bool
	err     error
}

// NewDeadlineReader returns a DeadlineReader over c that reads ahead up
// to size bytes at a time. A size below 1 selects 4096.
func NewDeadlineReader(c DeadlineConn, size int) *DeadlineReader {
	if size < 1 {
		size = 4096
	}
	return &DeadlineReader{c: c, buf: make([]byte, size)}
}

// WaitReadable reads ahead under a deadline of timeout from now.
// It reports the error of SetReadDeadline, which marks the source as
// unable to wait.
func (r *DeadlineReader) WaitReadable(timeout time.Duration) (bool, error) {
	if len(r.pending) > 0 || r.eof || r.err != nil {
		return true, nil
	}
	var deadline time.Time
	if timeout != Forever {
		deadline = time.Now().Add(timeout)
	}
	if err := r.c.SetReadDeadline(deadline); err != nil {
		return false, errors.Wrap(err, "parley: set read deadline")
	}
	defer r.c.SetReadDeadline(time.Time{})
	return r.readAhead()
}

// readAhead performs one read into pending. It returns false only when
// the read deadline expired.
func (r *DeadlineReader) readAhead() (bool, error) {
	n, err := r.c.Read(r.buf)
	r.pending = r.buf[:n]
	switch {
	case err == nil:
	case errors.Is(err, os.ErrDeadlineExceeded):
		return n > 0, nil
	case isEOF(err):
		r.eof = true
	default:
		r.err = err
	}
	return true, nil
}

// EOF reports whether the connection is exhausted. Without buffered
// input it blocks on one read.
func (r *DeadlineReader) EOF() bool {
	if len(r.pending) == 0 && !r.eof && r.err == nil {
		_, _ = r.readAhead()
	}
	return len(r.pending) == 0 && r.eof
}

// ReadChunk returns buffered bytes first, then reads the connection.
func (r *DeadlineReader) ReadChunk(p []byte) (int, error) {
	if len(r.pending) == 0 {
		if r.err != nil {
			err := r.err
			r.err = nil
			return 0, err
		}
		if r.eof {
			return 0, io.EOF
		}
		if _, err := r.readAhead(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// ReadByte reads one byte.
func (r *DeadlineReader) ReadByte() (byte, error) {
	var b [1]byte
	n, err := r.ReadChunk(b[:])
	if n == 0 {
		if err == nil {
			err = iox.ErrWouldBlock
		}
		return 0, err
	}
	return b[0], nil
}

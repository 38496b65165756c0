// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

// Forever is the wait duration passed to [Waiter.WaitReadable] when the
// call has no deadline.
const Forever time.Duration = -1

// Source is the byte source a [Session] reads from.
//
// A Source must report end of stream and must implement at least one of
// [ChunkReader] or [io.ByteReader]. It may implement [Waiter]; without it
// the source is assumed to always be ready.
type Source interface {
	// EOF reports whether the source is exhausted. It may block until
	// that can be decided.
	EOF() bool
}

// Waiter is implemented by sources that can wait for input.
type Waiter interface {
	// WaitReadable blocks until input is available, the source reaches
	// end of stream, or timeout elapses. A timeout of Forever waits
	// without bound; zero polls. It returns false on expiry.
	// Any error marks waiting as unsupported for the rest of the call.
	WaitReadable(timeout time.Duration) (bool, error)
}

// ChunkReader is implemented by sources that can read several bytes at once.
//
// ReadChunk reads up to len(p) bytes. It returns iox.ErrWouldBlock, or
// (0, nil), when no input is available right now, and io.EOF at end of
// stream.
type ChunkReader interface {
	ReadChunk(p []byte) (int, error)
}

// capabilities is the read surface of a source, resolved once per call.
type capabilities struct {
	src   Source
	wait  Waiter
	chunk ChunkReader
	unit  io.ByteReader
}

func probe(src Source) (capabilities, error) {
	c := capabilities{src: src}
	c.chunk, _ = src.(ChunkReader)
	c.unit, _ = src.(io.ByteReader)
	if c.chunk == nil && c.unit == nil {
		return c, ErrNoReader
	}
	if w, ok := src.(Waiter); ok && probeWait(w) {
		c.wait = w
	}
	return c, nil
}

// probeWait polls w once. Any failure, including a panic from a
// half-implemented source, means waiting is unsupported.
func probeWait(w Waiter) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_, err := w.WaitReadable(0)
	return err == nil
}

// read fills p following the chunk strategy: a multi-byte ReadChunk when
// len(p) > 1, otherwise a single unit.
func (c *capabilities) read(p []byte) (int, error) {
	if len(p) > 1 && c.chunk != nil {
		return c.chunk.ReadChunk(p)
	}
	if c.unit != nil {
		b, err := c.unit.ReadByte()
		if err != nil {
			return 0, err
		}
		p[0] = b
		return 1, nil
	}
	return c.chunk.ReadChunk(p[:1])
}

// isEOF reports whether err ends the stream. A hung-up terminal reads
// as end of stream too.
func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || isHangup(err)
}

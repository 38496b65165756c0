// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"io"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// pipeCapacity is the default number of chunks a Pipe holds before
// writers back off.
const pipeCapacity = 16

// Pipe is an in-process [Source] fed by a single writer goroutine.
// Chunks travel over a bounded lock-free SPSC queue; the reading side
// is the Session and must be used from one goroutine only.
//
// Pipe implements [Waiter], [ChunkReader] and io.ByteReader on its
// reading side, and io.WriteCloser on its writing side.
type Pipe struct {
	q       lfq.SPSC[[]byte]
	slot    []byte
	closed  atomix.Uint32
	pending []byte
}

// NewPipe returns a Pipe holding up to capacity unread chunks.
// A capacity below 1 selects the default.
func NewPipe(capacity int) *Pipe {
	if capacity < 1 {
		capacity = pipeCapacity
	}
	p := &Pipe{}
	p.q.Init(capacity)
	return p
}

// TryWrite enqueues a copy of b without blocking.
// It returns iox.ErrWouldBlock when the queue is full.
func (p *Pipe) TryWrite(b []byte) (int, error) {
	if p.closed.Load() != 0 {
		return 0, io.ErrClosedPipe
	}
	if len(b) == 0 {
		return 0, nil
	}
	p.slot = append([]byte(nil), b...)
	if err := p.q.Enqueue(&p.slot); err != nil {
		return 0, iox.ErrWouldBlock
	}
	return len(b), nil
}

// Write enqueues a copy of b, backing off while the queue is full.
func (p *Pipe) Write(b []byte) (int, error) {
	var bo iox.Backoff
	for {
		n, err := p.TryWrite(b)
		if !iox.IsWouldBlock(err) {
			return n, err
		}
		bo.Wait()
	}
}

// WriteString is Write for strings.
func (p *Pipe) WriteString(s string) (int, error) {
	return p.Write([]byte(s))
}

// Close marks the end of the stream. Chunks already written are still
// delivered.
func (p *Pipe) Close() error {
	p.closed.Add(1)
	return nil
}

// fill moves the next queued chunk into pending if pending is drained.
func (p *Pipe) fill() bool {
	if len(p.pending) > 0 {
		return true
	}
	b, err := p.q.Dequeue()
	if err != nil {
		return false
	}
	p.pending = b
	return len(p.pending) > 0
}

// EOF reports whether the writer has closed and every chunk is consumed.
func (p *Pipe) EOF() bool {
	// Load closed before draining: a chunk enqueued before Close is
	// then always seen by fill.
	closed := p.closed.Load() != 0
	return !p.fill() && closed
}

// WaitReadable waits until a chunk is available or the writer closes.
func (p *Pipe) WaitReadable(timeout time.Duration) (bool, error) {
	var bo iox.Backoff
	var deadline time.Time
	if timeout != Forever {
		deadline = time.Now().Add(timeout)
	}
	for {
		closed := p.closed.Load() != 0
		if p.fill() || closed {
			return true, nil
		}
		if timeout != Forever && !time.Now().Before(deadline) {
			return false, nil
		}
		bo.Wait()
	}
}

// ReadChunk copies up to len(p) pending bytes into b.
// It returns iox.ErrWouldBlock when nothing is queued and io.EOF once
// the pipe is closed and drained.
func (p *Pipe) ReadChunk(b []byte) (int, error) {
	if !p.fill() {
		if p.EOF() {
			return 0, io.EOF
		}
		return 0, iox.ErrWouldBlock
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

// ReadByte reads one pending byte without blocking.
func (p *Pipe) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := p.ReadChunk(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

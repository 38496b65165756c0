// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"io"
	"os"
	"time"
)

// defaultMaxRead is the number of bytes read per iteration until
// SetMaxRead says otherwise.
const defaultMaxRead = 1

// Session wraps a [Source] with the state that persists across
// [Session.Expect] calls: unconsumed input, the read chunk size and the
// verbose trace sink.
//
// A Session is not safe for concurrent use. One call to Expect must
// finish before the next one starts.
type Session struct {
	src      Source
	leftover []byte
	maxRead  int
	keepTail bool
	verbose  bool
	out      io.Writer
	serial   Serial
	now      func() time.Time
}

// New returns a Session reading from src.
func New(src Source) *Session {
	return &Session{
		src:     src,
		maxRead: defaultMaxRead,
		out:     os.Stdout,
		serial:  nextSerial(),
		now:     time.Now,
	}
}

// Source returns the underlying source.
func (s *Session) Source() Source { return s.src }

// Serial returns the serial number assigned to this session.
func (s *Session) Serial() Serial { return s.serial }

// SetMaxRead sets the number of bytes read per iteration.
// Values below 1 are coerced to 1.
func (s *Session) SetMaxRead(n int) {
	if n < 1 {
		n = 1
	}
	s.maxRead = n
}

// MaxRead returns the number of bytes read per iteration.
func (s *Session) MaxRead() int { return s.maxRead }

// SetVerbose turns the trace on or off. Records go to w, or to
// os.Stdout if w is nil.
func (s *Session) SetVerbose(on bool, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	s.verbose = on
	s.out = w
}

// Verbose reports whether the trace is on.
func (s *Session) Verbose() bool { return s.verbose }

// SetKeepTail controls what a data match consumes. By default the whole
// buffer is discarded on a match; with keep set, input after the match
// stays buffered for the next iteration.
func (s *Session) SetKeepTail(keep bool) { s.keepTail = keep }

// KeepTail reports whether input after a match is retained.
func (s *Session) KeepTail() bool { return s.keepTail }

// Leftover returns a copy of the input read but not yet consumed.
func (s *Session) Leftover() []byte {
	return append([]byte(nil), s.leftover...)
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"io"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"github.com/pkg/errors"
)

// outcome is the terminal state of one Expect call.
type outcome struct {
	result Result
	err    error
}

// again is the Left value of a step: run another iteration.
type again = struct{}

// expectLoop is the state of one Expect call. It lives on the caller's
// stack and is discarded when the call returns.
type expectLoop struct {
	s     *Session
	caps  capabilities
	tab   table
	dl    tracker
	buf   []byte
	chunk []byte
	bo    iox.Backoff
}

// Expect reads from the session source and matches the accumulated
// input against cases until an action ends the call.
//
// Each iteration waits for input (when the source is a [Waiter] and no
// leftover is buffered), checks end of stream, reads one chunk of up to
// MaxRead bytes and scans the data cases in table order. The first case
// whose pattern occurs anywhere in the buffer fires. A data match
// consumes the whole buffer; see [Session.SetKeepTail].
//
// Action results on a data match: Continue keeps matching, ResetTimeout
// keeps matching with a fresh deadline of t from now, an absent result
// ends the call with the *Match as value, and anything else ends the
// call with that result.
//
// On timeout the first TimedOut case runs; ResetTimeout resumes and any
// other result, Continue included, is returned. On end of stream the
// first EOF case runs and its result is returned as is. Without such a
// case Expect returns ErrTimeout or ErrEOF and keeps the unconsumed
// input for the next call.
func (s *Session) Expect(t Timeout, cases ...Case) (Result, error) {
	caps, err := probe(s.src)
	if err != nil {
		return Result{}, err
	}
	l := expectLoop{
		s:     s,
		caps:  caps,
		tab:   normalize(cases),
		dl:    newTracker(t, s.now),
		chunk: make([]byte, s.maxRead),
	}
	s.trace("start", "timeout", t.String(), "cases", len(cases), "wait", caps.wait != nil, "leftover", len(s.leftover))
	for {
		e := l.step()
		if o, ok := e.GetRight(); ok {
			if o.err != nil {
				s.trace("fail", "err", o.err, "leftover", len(s.leftover))
			} else {
				s.trace("result", "value", o.result.String())
			}
			return o.result, o.err
		}
	}
}

// step runs one iteration. Left means loop again, Right ends the call.
func (l *expectLoop) step() kont.Either[again, outcome] {
	s := l.s
	if len(s.leftover) == 0 && l.caps.wait != nil {
		ready, err := l.caps.wait.WaitReadable(l.dl.remaining())
		if err != nil {
			l.caps.wait = nil
		} else if !ready {
			return l.timedOut()
		}
	}

	if len(s.leftover) == 0 && s.src.EOF() {
		return l.endOfStream()
	}

	if n := len(s.leftover); n > 0 {
		n = min(n, s.maxRead)
		l.buf = append(l.buf, s.leftover[:n]...)
		s.leftover = s.leftover[n:]
	} else {
		n, err := l.caps.read(l.chunk[:s.maxRead])
		l.buf = append(l.buf, l.chunk[:n]...)
		if err != nil && err != io.EOF && !iox.IsWouldBlock(err) {
			return l.fail(errors.Wrap(err, "parley: read"))
		}
		if n == 0 {
			// Nothing new: re-check end of stream and the deadline
			// on the next iteration instead of spinning.
			if err != io.EOF {
				if l.dl.expired() {
					return l.timedOut()
				}
				l.bo.Wait()
			}
			return kont.Left[again, outcome](again{})
		}
		l.bo.Reset()
	}

	return l.match()
}

func (l *expectLoop) match() kont.Either[again, outcome] {
	s := l.s
	i, idx := l.tab.find(l.buf)
	if i < 0 {
		s.trace("nomatch", "buf", string(l.buf))
		return kont.Left[again, outcome](again{})
	}
	buf := l.buf
	l.buf = nil
	if s.keepTail && idx[1] < len(buf) {
		s.leftover = append(append([]byte(nil), buf[idx[1]:]...), s.leftover...)
	}
	s.trace("match", "case", i, "pattern", l.tab.entries[i].desc, "buf", string(buf))

	m := newMatch(buf, idx, DataMatch, i)
	r := l.tab.entries[i].action.run(m)
	switch r.kind {
	case resultContinue:
		return kont.Left[again, outcome](again{})
	case resultReset:
		l.dl.reset()
		s.trace("reset", "remaining", l.dl.remaining())
		return kont.Left[again, outcome](again{})
	case resultAbsent:
		return kont.Right[again](outcome{result: Value(m)})
	}
	return kont.Right[again](outcome{result: r})
}

func (l *expectLoop) timedOut() kont.Either[again, outcome] {
	s := l.s
	s.trace("timeout", "buf", string(l.buf))
	i := l.tab.timeout
	if i < 0 {
		return l.fail(ErrTimeout)
	}
	r := l.tab.entries[i].action.run(everythingMatch(l.buf, TimeoutMatch, i))
	if r.IsResetTimeout() {
		l.dl.reset()
		s.trace("reset", "remaining", l.dl.remaining())
		return kont.Left[again, outcome](again{})
	}
	l.buf = nil
	return kont.Right[again](outcome{result: r})
}

func (l *expectLoop) endOfStream() kont.Either[again, outcome] {
	s := l.s
	s.trace("eof", "buf", string(l.buf))
	i := l.tab.eof
	if i < 0 {
		return l.fail(ErrEOF)
	}
	r := l.tab.entries[i].action.run(everythingMatch(l.buf, EOFMatch, i))
	l.buf = nil
	return kont.Right[again](outcome{result: r})
}

// fail ends the call with err, keeping the accumulated input ahead of
// any leftover so the next call resumes from it.
func (l *expectLoop) fail(err error) kont.Either[again, outcome] {
	s := l.s
	if len(l.buf) > 0 {
		s.leftover = append(l.buf, s.leftover...)
	}
	l.buf = nil
	return kont.Right[again](outcome{err: err})
}

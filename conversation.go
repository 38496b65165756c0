// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"io"

	"code.hybscloud.com/kont"
)

// Conversation is a scripted dialogue with a peer: a [Session] reading
// the peer's output and the writer carrying our input to it.
type Conversation struct {
	s          *Session
	w          io.Writer
	transcript []byte
}

// NewConversation returns a Conversation reading through s and writing to w.
func NewConversation(s *Session, w io.Writer) *Conversation {
	return &Conversation{s: s, w: w}
}

// Session returns the reading side.
func (c *Conversation) Session() *Session { return c.s }

// Write sends p to the peer and records it in the transcript. Actions
// use it to answer a prompt from inside Expect.
func (c *Conversation) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.transcript = append(c.transcript, p[:n]...)
	return n, err
}

// Transcript returns everything sent so far.
func (c *Conversation) Transcript() []byte {
	return append([]byte(nil), c.transcript...)
}

// conversationHandler handles both conversation and error effects.
// A failing Send, Expect or Close aborts the protocol with its error,
// and so does a Throw.
type conversationHandler[A any] struct {
	c      *Conversation
	errCtx *kont.ErrorContext[error]
}

// Dispatch implements kont.Handler. Dispatch order: Conversation → Error.
func (h conversationHandler[A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if cop, ok := op.(conversationDispatcher); ok {
		v, err := cop.DispatchConversation(h.c)
		if err != nil {
			return kont.Left[error, A](err), false
		}
		return v, true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[error, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("parley: unhandled effect in conversation")
}

// Exec runs a conversation protocol to completion.
// Returns Either[error, R]: Right on success, Left with the first
// failing operation's error or a thrown error.
func Exec[R any](c *Conversation, protocol kont.Eff[R]) kont.Either[error, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	var errCtx kont.ErrorContext[error]
	h := conversationHandler[R]{c: c, errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// Run is Exec with the Either unpacked into Go's usual result pair.
func Run[R any](c *Conversation, protocol kont.Eff[R]) (R, error) {
	e := Exec(c, protocol)
	if err, ok := e.GetLeft(); ok {
		var zero R
		return zero, err
	}
	r, _ := e.GetRight()
	return r, nil
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"io"

	"code.hybscloud.com/kont"
	"github.com/pkg/errors"
)

// conversationDispatcher is the structural interface for conversation
// operations. Dispatch blocks: Expect waits on the session deadline.
type conversationDispatcher interface {
	DispatchConversation(c *Conversation) (kont.Resumed, error)
}

// Send is the effect operation for writing to the peer.
// Perform(Send{Data: b}) writes b to the conversation writer.
type Send struct {
	kont.Phantom[struct{}]
	Data []byte
}

// DispatchConversation writes the data and records it in the transcript.
func (s Send) DispatchConversation(c *Conversation) (kont.Resumed, error) {
	if _, err := c.Write(s.Data); err != nil {
		return nil, errors.Wrap(err, "parley: send")
	}
	return struct{}{}, nil
}

// Expect is the effect operation for matching the peer's output.
// Perform(Expect{Timeout: t, Cases: cases}) resumes with the Result of
// Session.Expect.
type Expect struct {
	kont.Phantom[Result]
	Timeout Timeout
	Cases   []Case
}

// DispatchConversation runs Session.Expect. ErrTimeout, ErrEOF and read
// failures abort the conversation.
func (e Expect) DispatchConversation(c *Conversation) (kont.Resumed, error) {
	r, err := c.s.Expect(e.Timeout, e.Cases...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Close is the effect operation for ending the outgoing direction.
// Perform(Close{}) half-closes the writer when it supports CloseWrite,
// closes it when it is an io.Closer, and does nothing otherwise.
type Close struct {
	kont.Phantom[struct{}]
}

// DispatchConversation closes the writer.
func (Close) DispatchConversation(c *Conversation) (kont.Resumed, error) {
	var err error
	switch w := c.w.(type) {
	case interface{ CloseWrite() error }:
		err = w.CloseWrite()
	case io.Closer:
		err = w.Close()
	}
	if err != nil {
		return nil, errors.Wrap(err, "parley: close")
	}
	return struct{}{}, nil
}

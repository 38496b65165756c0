// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"code.hybscloud.com/kont"
)

// Suspension is a conversation paused before its next operation.
type Suspension[R any] = kont.Suspension[kont.Either[error, R]]

// Step evaluates a conversation protocol until its first operation.
// Returns (result, nil) on completion, or (zero, suspension) if an
// operation is pending. Inspect susp.Op() to see it, then dispatch it
// with Advance.
func Step[R any](protocol kont.Eff[R]) (kont.Either[error, R], *Suspension[R]) {
	wrapped := kont.ExprMap(kont.Reify(protocol), func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	return kont.StepExpr(wrapped)
}

// Advance dispatches the suspended operation on c.
//
// When a Send, Expect or Close fails, the suspension is returned
// unconsumed along with the error, so the caller may retry it; an
// Expect that timed out resumes from the kept input. A thrown error
// discards the suspension and completes with Left.
func Advance[R any](c *Conversation, susp *Suspension[R]) (kont.Either[error, R], *Suspension[R], error) {
	if cop, ok := susp.Op().(conversationDispatcher); ok {
		v, err := cop.DispatchConversation(c)
		if err != nil {
			var zero kont.Either[error, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[error]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[error, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("parley: unhandled effect in Advance")
}

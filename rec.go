// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"code.hybscloud.com/kont"
)

// Loop runs a recursive conversation, such as a prompt answered until
// the peer says it is done.
// step returns Left(nextState) to continue or Right(result) to finish.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if next, ok := e.GetLeft(); ok {
			return Loop(next, step)
		}
		result, _ := e.GetRight()
		return kont.Pure(result)
	})
}

// ExpectLoop matches the peer's output against the same cases over and
// over, folding each Result into the state. next may send a reply
// before deciding; each round gets a fresh timeout of t.
func ExpectLoop[S, A any](initial S, t Timeout, cases []Case, next func(S, Result) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return Loop(initial, func(s S) kont.Eff[kont.Either[S, A]] {
		return ExpectBind(t, cases, func(r Result) kont.Eff[kont.Either[S, A]] {
			return next(s, r)
		})
	})
}

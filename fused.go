// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"code.hybscloud.com/kont"
)

// SendThen sends data and then continues with next.
// Fuses Perform(Send{Data: data}) + Then.
func SendThen[B any](data string, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Send{Data: []byte(data)}), next)
}

// SendLineThen sends line followed by a newline and continues with next.
func SendLineThen[B any](line string, next kont.Eff[B]) kont.Eff[B] {
	return SendThen(line+"\n", next)
}

// ExpectBind matches the peer's output and passes the result to f.
// Fuses Perform(Expect{...}) + Bind.
func ExpectBind[B any](t Timeout, cases []Case, f func(Result) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Expect{Timeout: t, Cases: cases}), f)
}

// ExpectThen matches the peer's output, ignores the result and
// continues with next.
func ExpectThen[B any](t Timeout, cases []Case, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Expect{Timeout: t, Cases: cases}), next)
}

// CloseDone closes the outgoing direction and returns a.
// Fuses Perform(Close{}) + Then + Pure.
func CloseDone[A any](a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Close{}), kont.Pure(a))
}

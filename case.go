// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"fmt"
	"regexp"

	"github.com/zyedidia/glob"
)

type matcherKind uint8

const (
	kindRegexp matcherKind = iota
	kindText
	kindTimeout
	kindEOF
)

// A Matcher selects which input, or which pseudo-condition, a [Case]
// reacts to.
type Matcher struct {
	kind matcherKind
	re   *regexp.Regexp
	text string
	desc string
}

// Regexp matches input against the regular expression.
// The pattern is compiled once; an invalid pattern causes a panic.
func Regexp(pattern string) Matcher {
	return Compiled(regexp.MustCompile(pattern))
}

// Compiled matches input against re.
func Compiled(re *regexp.Regexp) Matcher {
	return Matcher{kind: kindRegexp, re: re, desc: fmt.Sprintf("regexp %q", re.String())}
}

// Text matches the literal s anywhere in the input.
func Text(s string) Matcher {
	return Matcher{kind: kindText, text: s, desc: fmt.Sprintf("text %q", s)}
}

// Glob matches when the whole buffered input matches the shell glob
// pattern, so an expect-style prompt is written "*ssword:". A star
// also spans newlines. An invalid pattern causes a panic.
func Glob(pattern string) Matcher {
	g, err := glob.Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("parley: glob %q: %v", pattern, err))
	}
	m := Compiled(regexp.MustCompile("(?s)" + g.String()))
	m.desc = fmt.Sprintf("glob %q", pattern)
	return m
}

// TimedOut matches the timeout pseudo-condition.
func TimedOut() Matcher { return Matcher{kind: kindTimeout, desc: "timeout"} }

// EOF matches the end-of-stream pseudo-condition.
func EOF() Matcher { return Matcher{kind: kindEOF, desc: "eof"} }

func (m Matcher) String() string { return m.desc }

type resultKind uint8

const (
	resultAbsent resultKind = iota
	resultContinue
	resultReset
	resultValue
)

// Result is what an [Action] produces and what [Session.Expect] returns.
// The zero Result is absent: on a data match it ends the call with the
// *Match as value.
type Result struct {
	kind  resultKind
	value any
}

var (
	// Continue keeps matching.
	Continue = Result{kind: resultContinue}
	// ResetTimeout keeps matching with a fresh deadline.
	ResetTimeout = Result{kind: resultReset}
)

// Value returns a terminal result carrying v.
func Value(v any) Result { return Result{kind: resultValue, value: v} }

// IsContinue reports whether r is Continue.
func (r Result) IsContinue() bool { return r.kind == resultContinue }

// IsResetTimeout reports whether r is ResetTimeout.
func (r Result) IsResetTimeout() bool { return r.kind == resultReset }

// IsAbsent reports whether r carries nothing at all.
func (r Result) IsAbsent() bool { return r.kind == resultAbsent }

// Value returns the terminal value, or nil for control results.
func (r Result) Value() any { return r.value }

// Match returns the value as a *Match, if it is one.
func (r Result) Match() (*Match, bool) {
	m, ok := r.value.(*Match)
	return m, ok
}

func (r Result) String() string {
	switch r.kind {
	case resultContinue:
		return "continue"
	case resultReset:
		return "reset_timeout"
	case resultValue:
		return fmt.Sprint(r.value)
	}
	return "<absent>"
}

// Action is either a literal Result or a callable. The zero Action is
// absent.
type Action struct {
	call func(*Match) Result
	lit  Result
}

// Reply returns an action that always yields r.
func Reply(r Result) Action { return Action{lit: r} }

// Return returns an action that ends the call with v.
func Return(v any) Action { return Reply(Value(v)) }

// Do returns an action that calls fn with the match.
func Do(fn func(m *Match) Result) Action { return Action{call: fn} }

func (a Action) run(m *Match) Result {
	if a.call != nil {
		return a.call(m)
	}
	return a.lit
}

// Case pairs a Matcher with an Action. Case order in a table is
// significant: the first matching case wins.
type Case struct {
	Matcher Matcher
	Action  Action
}

// On returns a Case.
func On(m Matcher, a Action) Case { return Case{Matcher: m, Action: a} }

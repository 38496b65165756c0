// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package script loads YAML dialogue scripts and runs them as parley
// conversations.
package script

import (
	"fmt"
	"io"
	"regexp"
	"slices"

	"code.hybscloud.com/kont"
	"github.com/pkg/errors"
	"github.com/zyedidia/glob"
	"gopkg.in/yaml.v2"

	"code.hybscloud.com/parley"
)

// ErrInvalidScript reports a script that does not describe a dialogue.
var ErrInvalidScript = errors.New("script: invalid")

// CaseFailure is returned when a case marked fail fires.
type CaseFailure struct {
	Step  int
	Case  int
	Value any
}

func (f *CaseFailure) Error() string {
	return fmt.Sprintf("script: step %d: case %d failed: %v", f.Step, f.Case, f.Value)
}

// Script is a parsed dialogue.
type Script struct {
	Timeout  any    `yaml:"timeout"`
	MaxRead  int    `yaml:"maxread"`
	KeepTail bool   `yaml:"keep_tail"`
	Steps    []Step `yaml:"steps"`

	timeout parley.Timeout
	steps   []compiled
}

// Step is one send, expect or close.
type Step struct {
	Send   *string     `yaml:"send"`
	Expect *ExpectStep `yaml:"expect"`
	Close  bool        `yaml:"close"`
}

// ExpectStep is a table of cases. An absent or null timeout falls back
// to the script timeout.
type ExpectStep struct {
	Timeout any        `yaml:"timeout"`
	Cases   []CaseSpec `yaml:"cases"`
}

// CaseSpec is one pattern-action pair. Exactly one of Text, Regexp,
// Glob, Timeout and EOF selects the matcher.
//
// Result is "continue", "reset", any other scalar returned as is, or
// absent to return the matched text. Send is written when the case
// fires; Fail makes the case abort the script.
type CaseSpec struct {
	Text    *string `yaml:"text"`
	Regexp  *string `yaml:"regexp"`
	Glob    *string `yaml:"glob"`
	Timeout bool    `yaml:"timeout"`
	EOF     bool    `yaml:"eof"`
	Result  any     `yaml:"result"`
	Send    string  `yaml:"send"`
	Fail    bool    `yaml:"fail"`
}

type stepKind uint8

const (
	stepSend stepKind = iota
	stepExpect
	stepClose
)

type compiled struct {
	kind    stepKind
	send    string
	timeout parley.Timeout
	cases   []compiledCase
}

type compiledCase struct {
	matcher parley.Matcher
	result  parley.Result
	send    string
	fail    bool
}

// failed marks a terminal value produced by a case marked fail.
type failed struct {
	at    int
	value any
}

// Load parses and validates a script.
func Load(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "script: read")
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(ErrInvalidScript, err.Error())
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) compile() error {
	t, err := parley.ParseTimeout(s.Timeout)
	if err != nil {
		return errors.Wrap(err, "script: timeout")
	}
	s.timeout = t
	if len(s.Steps) == 0 {
		return errors.Wrap(ErrInvalidScript, "no steps")
	}
	s.steps = make([]compiled, len(s.Steps))
	for i, st := range s.Steps {
		c, err := s.compileStep(st)
		if err != nil {
			return errors.Wrapf(err, "script: step %d", i)
		}
		s.steps[i] = c
	}
	return nil
}

func (s *Script) compileStep(st Step) (compiled, error) {
	n := 0
	if st.Send != nil {
		n++
	}
	if st.Expect != nil {
		n++
	}
	if st.Close {
		n++
	}
	if n != 1 {
		return compiled{}, errors.Wrap(ErrInvalidScript, "want exactly one of send, expect, close")
	}
	switch {
	case st.Send != nil:
		return compiled{kind: stepSend, send: *st.Send}, nil
	case st.Close:
		return compiled{kind: stepClose}, nil
	}

	c := compiled{kind: stepExpect, timeout: s.timeout}
	if st.Expect.Timeout != nil {
		t, err := parley.ParseTimeout(st.Expect.Timeout)
		if err != nil {
			return compiled{}, err
		}
		c.timeout = t
	}
	if len(st.Expect.Cases) == 0 {
		return compiled{}, errors.Wrap(ErrInvalidScript, "expect without cases")
	}
	c.cases = make([]compiledCase, len(st.Expect.Cases))
	for j, cs := range st.Expect.Cases {
		cc, err := compileCase(cs)
		if err != nil {
			return compiled{}, errors.Wrapf(err, "case %d", j)
		}
		c.cases[j] = cc
	}
	return c, nil
}

func compileCase(cs CaseSpec) (compiledCase, error) {
	var cc compiledCase
	n := 0
	if cs.Text != nil {
		cc.matcher = parley.Text(*cs.Text)
		n++
	}
	if cs.Regexp != nil {
		re, err := regexp.Compile(*cs.Regexp)
		if err != nil {
			return cc, errors.Wrap(ErrInvalidScript, err.Error())
		}
		cc.matcher = parley.Compiled(re)
		n++
	}
	if cs.Glob != nil {
		if _, err := glob.Compile(*cs.Glob); err != nil {
			return cc, errors.Wrap(ErrInvalidScript, err.Error())
		}
		cc.matcher = parley.Glob(*cs.Glob)
		n++
	}
	if cs.Timeout {
		cc.matcher = parley.TimedOut()
		n++
	}
	if cs.EOF {
		cc.matcher = parley.EOF()
		n++
	}
	if n != 1 {
		return cc, errors.Wrap(ErrInvalidScript, "want exactly one of text, regexp, glob, timeout, eof")
	}

	switch v := cs.Result.(type) {
	case nil:
	case string:
		switch v {
		case "continue":
			cc.result = parley.Continue
		case "reset":
			cc.result = parley.ResetTimeout
		default:
			cc.result = parley.Value(v)
		}
	default:
		cc.result = parley.Value(v)
	}
	cc.send = cs.Send
	cc.fail = cs.Fail
	return cc, nil
}

// DefaultTimeout returns the script-wide timeout.
func (s *Script) DefaultTimeout() parley.Timeout { return s.timeout }

// Program compiles the script into a conversation protocol whose result
// is the value of every expect step, in order. A matched text value is
// the text of the match.
func (s *Script) Program(c *parley.Conversation) kont.Eff[[]any] {
	return s.from(c, 0, nil)
}

func (s *Script) from(c *parley.Conversation, i int, acc []any) kont.Eff[[]any] {
	if i == len(s.steps) {
		return kont.Pure(acc)
	}
	st := s.steps[i]
	switch st.kind {
	case stepSend:
		return parley.SendThen(st.send, s.from(c, i+1, acc))
	case stepClose:
		return kont.Then(kont.Perform(parley.Close{}), s.from(c, i+1, acc))
	}
	return parley.ExpectBind(st.timeout, s.cases(c, st), func(r parley.Result) kont.Eff[[]any] {
		v := r.Value()
		if f, ok := v.(failed); ok {
			return kont.ThrowError[error, []any](&CaseFailure{Step: i, Case: f.at, Value: f.value})
		}
		if m, ok := r.Match(); ok {
			v = m.String()
		}
		return s.from(c, i+1, append(slices.Clip(acc), v))
	})
}

// cases turns compiled cases into parley cases bound to c.
func (s *Script) cases(c *parley.Conversation, st compiled) []parley.Case {
	out := make([]parley.Case, len(st.cases))
	for j, cc := range st.cases {
		out[j] = parley.On(cc.matcher, action(c, j, cc))
	}
	return out
}

func action(c *parley.Conversation, at int, cc compiledCase) parley.Action {
	if cc.send == "" && !cc.fail {
		return parley.Reply(cc.result)
	}
	return parley.Do(func(m *parley.Match) parley.Result {
		if cc.send != "" {
			if _, err := io.WriteString(c, cc.send); err != nil {
				return parley.Value(failed{at: at, value: err})
			}
		}
		if cc.fail {
			v := cc.result.Value()
			if cc.result.IsAbsent() {
				v = m.String()
			}
			return parley.Value(failed{at: at, value: v})
		}
		return cc.result
	})
}

// Run applies the script settings to the session and runs the dialogue,
// writing to w.
func (s *Script) Run(sess *parley.Session, w io.Writer) ([]any, error) {
	if s.MaxRead > 0 {
		sess.SetMaxRead(s.MaxRead)
	}
	sess.SetKeepTail(s.KeepTail)
	c := parley.NewConversation(sess, w)
	return parley.Run(c, s.Program(c))
}

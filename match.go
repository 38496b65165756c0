// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import "regexp"

// MatchKind tells a data match from a pseudo-condition match.
type MatchKind uint8

const (
	// DataMatch is a regexp, text or glob match on buffered input.
	DataMatch MatchKind = iota
	// TimeoutMatch is synthesized when the deadline elapses.
	TimeoutMatch
	// EOFMatch is synthesized at end of stream.
	EOFMatch
)

func (k MatchKind) String() string {
	switch k {
	case TimeoutMatch:
		return "timeout"
	case EOFMatch:
		return "eof"
	}
	return "data"
}

// everything matches the whole buffer; pseudo-condition matches are
// built from it so that callables see a uniform Match.
var everything = regexp.MustCompile(`(?s)^.*`)

// Match is the region of the buffer a case matched, with its capture
// groups. Indices follow regexp.FindSubmatchIndex.
type Match struct {
	buf  []byte
	idx  []int
	kind MatchKind
	// Case is the table position of the case that fired.
	Case int
}

func newMatch(buf []byte, idx []int, kind MatchKind, at int) *Match {
	return &Match{buf: buf, idx: idx, kind: kind, Case: at}
}

// everythingMatch synthesizes a match over the entire buffer.
func everythingMatch(buf []byte, kind MatchKind, at int) *Match {
	return newMatch(buf, everything.FindSubmatchIndex(buf), kind, at)
}

// Kind reports what produced the match.
func (m *Match) Kind() MatchKind { return m.kind }

// Buffer returns the whole accumulated input the match was taken from.
func (m *Match) Buffer() []byte { return m.buf }

// Index returns the submatch index pairs.
func (m *Match) Index() []int { return m.idx }

// NumGroups returns the number of capture groups, excluding group 0.
func (m *Match) NumGroups() int { return len(m.idx)/2 - 1 }

// Group returns capture group i, or nil if i is out of range or the
// group did not participate.
func (m *Match) Group(i int) []byte {
	if i < 0 || 2*i+1 >= len(m.idx) || m.idx[2*i] < 0 {
		return nil
	}
	return m.buf[m.idx[2*i]:m.idx[2*i+1]]
}

// Bytes returns the matched text.
func (m *Match) Bytes() []byte { return m.Group(0) }

func (m *Match) String() string { return string(m.Group(0)) }

// Pre returns the input before the match.
func (m *Match) Pre() []byte { return m.buf[:m.idx[0]] }

// Post returns the input after the match.
func (m *Match) Post() []byte { return m.buf[m.idx[1]:] }

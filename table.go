// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import "regexp"

// entry is a Case with its matcher resolved to a regexp.
type entry struct {
	re     *regexp.Regexp
	kind   matcherKind
	action Action
	desc   string
}

// table is the normalized, call-scoped copy of the caller's cases.
// Order is preserved; the caller's slice is never written.
type table struct {
	entries []entry
	timeout int
	eof     int
}

func normalize(cases []Case) table {
	t := table{entries: make([]entry, len(cases)), timeout: -1, eof: -1}
	for i, c := range cases {
		e := entry{re: c.Matcher.re, kind: c.Matcher.kind, action: c.Action, desc: c.Matcher.desc}
		switch e.kind {
		case kindText:
			e.re = regexp.MustCompile(regexp.QuoteMeta(c.Matcher.text))
		case kindTimeout:
			if t.timeout < 0 {
				t.timeout = i
			}
		case kindEOF:
			if t.eof < 0 {
				t.eof = i
			}
		}
		t.entries[i] = e
	}
	return t
}

// find returns the first data entry matching buf and its submatch
// indices, or (-1, nil).
func (t *table) find(buf []byte) (int, []int) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.re == nil || e.kind == kindTimeout || e.kind == kindEOF {
			continue
		}
		if idx := e.re.FindSubmatchIndex(buf); idx != nil {
			return i, idx
		}
	}
	return -1, nil
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley_test

import (
	"strings"
	"testing"
	"time"

	"code.hybscloud.com/parley"
)

const colors = "red apple\nbright white\nthree dogs\nblue sky\nafter glow\n"

// fromString returns a session over s reading maxRead bytes at a time.
func fromString(s string, maxRead int) *parley.Session {
	sess := parley.New(parley.NewReader(strings.NewReader(s)))
	sess.SetMaxRead(maxRead)
	return sess
}

// counting returns an action that increments *n and keeps matching.
func counting(n *int) parley.Action {
	return parley.Do(func(*parley.Match) parley.Result {
		*n++
		return parley.Continue
	})
}

// count returns an action that ends the call with the value of *n.
func count(n *int) parley.Action {
	return parley.Do(func(*parley.Match) parley.Result {
		return parley.Value(*n)
	})
}

// closedPipe returns a pipe holding chunks whose writer has already closed.
func closedPipe(chunks ...string) *parley.Pipe {
	p := parley.NewPipe(2*len(chunks) + 2)
	for _, c := range chunks {
		p.WriteString(c)
	}
	p.Close()
	return p
}

// feed writes each chunk to p after delay, from a separate goroutine.
// A nil chunk list leaves the writer open.
func feed(p *parley.Pipe, delay time.Duration, chunks ...string) {
	go func() {
		for _, c := range chunks {
			time.Sleep(delay)
			p.WriteString(c)
		}
	}()
}

// value fails the test on err and returns the terminal value of r.
func value(t *testing.T, r parley.Result, err error) any {
	t.Helper()
	if err != nil {
		t.Fatalf("Expect: %v", err)
	}
	return r.Value()
}

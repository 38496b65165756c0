// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import "time"

// tracker holds the absolute deadline of one Expect call.
// reset always grants the original per-call window from now.
type tracker struct {
	window time.Duration
	bound  bool
	at     time.Time
	now    func() time.Time
}

func newTracker(t Timeout, now func() time.Time) tracker {
	tr := tracker{window: t.d, bound: t.set, now: now}
	tr.reset()
	return tr
}

func (tr *tracker) reset() {
	if tr.bound {
		tr.at = tr.now().Add(tr.window)
	}
}

// remaining returns the time left, clamped at zero, or Forever when
// the call is unbounded.
func (tr *tracker) remaining() time.Duration {
	if !tr.bound {
		return Forever
	}
	if d := tr.at.Sub(tr.now()); d > 0 {
		return d
	}
	return 0
}

func (tr *tracker) expired() bool {
	return tr.bound && !tr.now().Before(tr.at)
}

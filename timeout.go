// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Timeout is the per-call wait budget of [Session.Expect].
// The zero value has no deadline.
type Timeout struct {
	d   time.Duration
	set bool
}

// NoTimeout waits without a deadline.
var NoTimeout = Timeout{}

// Within returns a timeout of d. A zero or negative d expires as soon
// as no input is available.
func Within(d time.Duration) Timeout {
	return Timeout{d: d, set: true}
}

// Seconds returns a timeout of s seconds.
// Values beyond the range of time.Duration saturate.
func Seconds(s float64) Timeout {
	ns := s * float64(time.Second)
	switch {
	case ns >= math.MaxInt64:
		return Within(math.MaxInt64)
	case ns <= math.MinInt64:
		return Within(math.MinInt64)
	}
	return Within(time.Duration(ns))
}

// wholeSeconds converts n seconds, saturating at the largest Duration.
func wholeSeconds(n int64) Timeout {
	switch {
	case n > math.MaxInt64/int64(time.Second):
		return Within(math.MaxInt64)
	case n < math.MinInt64/int64(time.Second):
		return Within(math.MinInt64)
	}
	return Within(time.Duration(n) * time.Second)
}

func unsignedSeconds(n uint64) Timeout {
	if n > math.MaxInt64/uint64(time.Second) {
		return Within(math.MaxInt64)
	}
	return wholeSeconds(int64(n))
}

// Duration returns the timeout and whether one is set.
func (t Timeout) Duration() (time.Duration, bool) {
	return t.d, t.set
}

func (t Timeout) String() string {
	if !t.set {
		return "none"
	}
	return t.d.String()
}

// ParseTimeout converts a loosely typed value into a Timeout.
// nil means no timeout; integers and floats are seconds; a
// time.Duration is taken as is. Anything else, including NaN and
// infinities, is ErrInvalidTimeout.
func ParseTimeout(v any) (Timeout, error) {
	switch x := v.(type) {
	case nil:
		return NoTimeout, nil
	case time.Duration:
		return Within(x), nil
	case int:
		return wholeSeconds(int64(x)), nil
	case int8:
		return wholeSeconds(int64(x)), nil
	case int16:
		return wholeSeconds(int64(x)), nil
	case int32:
		return wholeSeconds(int64(x)), nil
	case int64:
		return wholeSeconds(int64(x)), nil
	case uint:
		return unsignedSeconds(uint64(x)), nil
	case uint8:
		return unsignedSeconds(uint64(x)), nil
	case uint16:
		return unsignedSeconds(uint64(x)), nil
	case uint32:
		return unsignedSeconds(uint64(x)), nil
	case uint64:
		return unsignedSeconds(uint64(x)), nil
	case float32:
		return parseFloat(float64(x))
	case float64:
		return parseFloat(x)
	}
	return NoTimeout, errors.Wrapf(ErrInvalidTimeout, "%#v", v)
}

func parseFloat(f float64) (Timeout, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NoTimeout, errors.Wrap(ErrInvalidTimeout, strconv.FormatFloat(f, 'g', -1, 64))
	}
	return Seconds(f), nil
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"github.com/pkg/errors"
)

var (
	// ErrTimeout is returned by Expect when the deadline elapses and the
	// table has no TimedOut case. The accumulated input is kept in the
	// session leftover for the next call.
	ErrTimeout = errors.New("parley: timeout")

	// ErrEOF is returned by Expect when the source reaches end of stream
	// and the table has no EOF case. The accumulated input is kept in the
	// session leftover for the next call.
	ErrEOF = errors.New("parley: end of stream")

	// ErrInvalidTimeout reports a timeout value that is neither absent
	// nor numeric.
	ErrInvalidTimeout = errors.New("parley: invalid timeout")

	// ErrNoReader reports a source that offers neither ReadChunk nor ReadByte.
	ErrNoReader = errors.New("parley: source has no read primitive")
)

// IsTimeout reports whether err is, or wraps, ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsEOF reports whether err is, or wraps, ErrEOF.
func IsEOF(err error) bool {
	return errors.Is(err, ErrEOF)
}

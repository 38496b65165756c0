// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"github.com/go-logfmt/logfmt"
)

// trace writes one logfmt record to the session sink when verbose is on.
// Encoding errors are dropped; tracing never changes the outcome.
func (s *Session) trace(event string, keyvals ...any) {
	if !s.verbose {
		return
	}
	enc := logfmt.NewEncoder(s.out)
	kv := make([]any, 0, 4+len(keyvals))
	kv = append(kv, "parley", s.serial, "event", event)
	kv = append(kv, keyvals...)
	_ = enc.EncodeKeyvals(kv...)
	_ = enc.EndRecord()
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley

import "code.hybscloud.com/atomix"

// Serial tags a session's trace records so that interleaved output of
// several sessions can be told apart. Serials increase with each New.
type Serial uint32

// sessions counts sessions created by this process.
var sessions atomix.Uint32

func nextSerial() Serial {
	return Serial(sessions.Add(1))
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package parley

import "os"

// File waits through read deadlines where poll(2) is not available.
type File = DeadlineReader

// NewFile returns a File over f that reads up to size bytes at a time.
func NewFile(f *os.File, size int) *File {
	return NewDeadlineReader(f, size)
}

func isHangup(error) bool { return false }

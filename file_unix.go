// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux || darwin || freebsd || netbsd || openbsd

package parley

import (
	"io"
	"os"
	"time"

	"code.hybscloud.com/iox"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// File adapts a terminal, pipe, FIFO or other pollable file to a
// [Source], waiting for input with poll(2).
type File struct {
	f       *os.File
	fd      int
	buf     []byte
	pending []byte
	eof     bool
	err     error
}

// NewFile returns a File over f that reads up to size bytes at a time.
// A size below 1 selects 4096. The file descriptor is switched to
// blocking mode, as with (*os.File).Fd.
func NewFile(f *os.File, size int) *File {
	if size < 1 {
		size = 4096
	}
	return &File{f: f, fd: int(f.Fd()), buf: make([]byte, size)}
}

// WaitReadable polls the descriptor for input or hang-up.
func (f *File) WaitReadable(timeout time.Duration) (bool, error) {
	if len(f.pending) > 0 || f.eof || f.err != nil {
		return true, nil
	}
	ms := -1
	if timeout != Forever {
		ms = int((timeout + time.Millisecond - 1) / time.Millisecond)
	}
	fds := []unix.PollFd{{Fd: int32(f.fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, errors.Wrap(err, "parley: poll")
		}
		if fds[0].Revents&unix.POLLNVAL != 0 {
			return false, errors.Wrap(unix.EBADF, "parley: poll")
		}
		return n > 0, nil
	}
}

func (f *File) readAhead() {
	n, err := f.f.Read(f.buf)
	f.pending = f.buf[:n]
	switch {
	case err == nil:
	case isEOF(err):
		f.eof = true
	default:
		f.err = err
	}
}

// EOF reports whether the file is exhausted. Without buffered input it
// blocks on one read; a hung-up terminal counts as end of stream.
func (f *File) EOF() bool {
	if len(f.pending) == 0 && !f.eof && f.err == nil {
		f.readAhead()
	}
	return len(f.pending) == 0 && f.eof
}

// ReadChunk returns buffered bytes first, then reads the file.
func (f *File) ReadChunk(p []byte) (int, error) {
	if len(f.pending) == 0 {
		if f.err != nil {
			err := f.err
			f.err = nil
			return 0, err
		}
		if f.eof {
			return 0, io.EOF
		}
		f.readAhead()
	}
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

// ReadByte reads one byte.
func (f *File) ReadByte() (byte, error) {
	var b [1]byte
	n, err := f.ReadChunk(b[:])
	if n == 0 {
		if err == nil {
			err = iox.ErrWouldBlock
		}
		return 0, err
	}
	return b[0], nil
}

func isHangup(err error) bool {
	return errors.Is(err, unix.EIO)
}

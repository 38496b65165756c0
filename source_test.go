// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley_test

import (
	"io"
	"net"
	"os"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"code.hybscloud.com/iox"
	"github.com/pkg/errors"

	"code.hybscloud.com/parley"
)

func TestPipeReadWrite(t *testing.T) {
	p := parley.NewPipe(4)
	if _, err := p.TryWrite([]byte("ab")); err != nil {
		t.Fatalf("TryWrite: %v", err)
	}
	if _, err := p.TryWrite([]byte("cd")); err != nil {
		t.Fatalf("TryWrite: %v", err)
	}
	// NewPipe may round capacity up; fill until the queue pushes back.
	full := false
	for range 64 {
		if _, err := p.TryWrite([]byte("x")); iox.IsWouldBlock(err) {
			full = true
			break
		}
	}
	if !full {
		t.Fatal("bounded pipe never reported ErrWouldBlock")
	}

	buf := make([]byte, 8)
	n, err := p.ReadChunk(buf)
	if err != nil || string(buf[:n]) != "ab" {
		t.Fatalf("ReadChunk = %q, %v", buf[:n], err)
	}
	b, err := p.ReadByte()
	if err != nil || b != 'c' {
		t.Fatalf("ReadByte = %q, %v", b, err)
	}
}

func TestPipeEmptyWouldBlock(t *testing.T) {
	p := parley.NewPipe(0)
	if _, err := p.ReadChunk(make([]byte, 4)); !iox.IsWouldBlock(err) {
		t.Fatalf("got %v, want ErrWouldBlock", err)
	}
	if ready, err := p.WaitReadable(0); ready || err != nil {
		t.Fatalf("WaitReadable = %v, %v", ready, err)
	}
	if p.EOF() {
		t.Fatal("open pipe reported EOF")
	}
}

func TestPipeCloseDrains(t *testing.T) {
	p := closedPipe("tail")
	if p.EOF() {
		t.Fatal("EOF before the last chunk was read")
	}
	if _, err := p.Write([]byte("more")); err != io.ErrClosedPipe {
		t.Fatalf("write after close: %v", err)
	}
	buf := make([]byte, 8)
	n, _ := p.ReadChunk(buf)
	if string(buf[:n]) != "tail" {
		t.Fatalf("got %q, want tail", buf[:n])
	}
	if !p.EOF() {
		t.Fatal("drained closed pipe is not at EOF")
	}
	if _, err := p.ReadChunk(buf); err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestPipeConcurrentWriter(t *testing.T) {
	skipRace(t)
	p := parley.NewPipe(4)
	go func() {
		for range 100 {
			p.WriteString("tick\n")
		}
		p.WriteString("END\n")
		p.Close()
	}()
	ticks := 0
	s := parley.New(p)
	s.SetMaxRead(5)
	r, err := s.Expect(parley.Seconds(5),
		parley.On(parley.Text("tick\n"), counting(&ticks)),
		parley.On(parley.Text("END"), count(&ticks)),
	)
	if v := value(t, r, err); v != 100 {
		t.Fatalf("got %v ticks, want 100", v)
	}
}

func TestReaderChunks(t *testing.T) {
	s := fromString("one two", 3)
	r, err := s.Expect(parley.NoTimeout, parley.On(parley.Text("two"), parley.Action{}))
	if err != nil {
		t.Fatalf("Expect: %v", err)
	}
	m, _ := r.Match()
	// Chunks of three: "one", " tw", "o". Without a match the buffer
	// keeps growing, so the match sees all of them.
	if got := string(m.Buffer()); got != "one two" {
		t.Fatalf("buffer %q, want %q", got, "one two")
	}
	if got := string(m.Pre()); got != "one " {
		t.Fatalf("pre %q", got)
	}
}

func TestReaderErrorIsNotEOF(t *testing.T) {
	boom := errors.New("boom")
	src := io.MultiReader(strings.NewReader("ab"), iotest.ErrReader(boom))
	s := parley.New(parley.NewReader(src))
	s.SetMaxRead(8)
	_, err := s.Expect(parley.NoTimeout,
		parley.On(parley.Text("zz"), parley.Return("data")),
		parley.On(parley.EOF(), parley.Return("eof")),
	)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want the read error", err)
	}
	if parley.IsEOF(err) {
		t.Fatalf("read error reported as end of stream: %v", err)
	}
	if got := string(s.Leftover()); got != "ab" {
		t.Fatalf("leftover %q, want ab", got)
	}
}

func TestDeadlineReaderTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	s := parley.New(parley.NewDeadlineReader(client, 0))
	r, err := s.Expect(parley.Within(50*time.Millisecond), parley.On(parley.TimedOut(), parley.Return("timeout")))
	if v := value(t, r, err); v != "timeout" {
		t.Fatalf("got %v, want timeout", v)
	}
}

func TestDeadlineReaderConversation(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	go func() {
		server.Write([]byte("login: "))
		buf := make([]byte, 64)
		n, _ := server.Read(buf)
		server.Write([]byte("hello " + string(buf[:n])))
		server.Close()
	}()

	s := parley.New(parley.NewDeadlineReader(client, 0))
	s.SetMaxRead(64)
	r, err := s.Expect(parley.Seconds(5), parley.On(parley.Text("login:"), parley.Do(func(*parley.Match) parley.Result {
		client.Write([]byte("guest\n"))
		return parley.Value("sent")
	})))
	if v := value(t, r, err); v != "sent" {
		t.Fatalf("got %v, want sent", v)
	}
	r, err = s.Expect(parley.Seconds(5),
		parley.On(parley.Regexp(`hello (\w+)`), parley.Action{}),
		parley.On(parley.EOF(), parley.Return("eof")),
	)
	if err != nil {
		t.Fatalf("Expect: %v", err)
	}
	m, ok := r.Match()
	if !ok || string(m.Group(1)) != "guest" {
		t.Fatalf("got %v, want hello guest", r)
	}
	r, err = s.Expect(parley.Seconds(5), parley.On(parley.EOF(), parley.Return("eof")))
	if v := value(t, r, err); v != "eof" {
		t.Fatalf("got %v, want eof", v)
	}
}

func TestFilePipe(t *testing.T) {
	rf, wf, err := os.Pipe()
	if err != nil {
		t.Skip(err)
	}
	defer rf.Close()
	go func() {
		time.Sleep(20 * time.Millisecond)
		wf.WriteString("ready> ")
		wf.Close()
	}()
	s := parley.New(parley.NewFile(rf, 0))
	s.SetMaxRead(16)
	r, err := s.Expect(parley.Seconds(5),
		parley.On(parley.Text("> "), parley.Return("prompt")),
		parley.On(parley.TimedOut(), parley.Return("timeout")),
	)
	if v := value(t, r, err); v != "prompt" {
		t.Fatalf("got %v, want prompt", v)
	}
	r, err = s.Expect(parley.Seconds(5), parley.On(parley.EOF(), parley.Return("eof")))
	if v := value(t, r, err); v != "eof" {
		t.Fatalf("got %v, want eof", v)
	}
}

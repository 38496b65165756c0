// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package parley is an expect-style interaction engine for the
// informal, text-mode interfaces of interactive programs: login
// prompts, file-transfer clients, line-oriented games.
//
// A [Session] accumulates input from a byte [Source] and matches it
// against an ordered table of [Case] values, dispatching to the first
// case whose pattern occurs in the buffer.
//
// # Architecture
//
//   - Sources: [Reader] for any io.Reader, [File] for terminals, pipes and FIFOs (poll(2)), [DeadlineReader] for net.Conn, and [Pipe], an in-process source over a lock-free SPSC queue from [code.hybscloud.com/lfq].
//   - Non-blocking: [ChunkReader] and [Pipe.TryWrite] return [code.hybscloud.com/iox.ErrWouldBlock] when no progress is possible; the match loop backs off with iox.Backoff.
//   - Matching: [Regexp], [Compiled], [Text] and [Glob] match buffered input; [TimedOut] and [EOF] match the two pseudo-conditions.
//   - Actions: [Return] and [Reply] are constant, [Do] calls a function with the [Match]. [Continue] and [ResetTimeout] keep the loop running.
//   - Conversations: [Send], [Expect] and [Close] are effect operations on [code.hybscloud.com/kont]; [Exec] runs a protocol and returns [code.hybscloud.com/kont.Either], [Run] returns Go's usual result pair.
//   - Stepping: [Step] pauses a protocol before each operation and [Advance] dispatches it, so a caller can inspect operations or retry an Expect that timed out.
//
// # Matching
//
// Each iteration takes up to [Session.MaxRead] bytes and re-scans the
// whole buffer. Table order decides between cases, not match position
// or length. A data match consumes the entire buffer unless
// [Session.SetKeepTail] is set, so a large MaxRead can swallow input a
// later case would have matched.
//
// # Example
//
//	s := parley.New(parley.NewReader(strings.NewReader("login: ")))
//	r, err := s.Expect(parley.Seconds(30),
//		parley.On(parley.Text("ogin:"), parley.Return("prompted")),
//		parley.On(parley.TimedOut(), parley.Return("timed out")),
//		parley.On(parley.EOF(), parley.Return("closed")),
//	)
//
// # Conversations
//
//	c := parley.NewConversation(s, w)
//	login := parley.ExpectThen(parley.Seconds(30), prompt,
//		parley.SendLineThen("guest",
//			parley.ExpectBind(parley.Seconds(30), shell, func(r parley.Result) kont.Eff[string] {
//				return kont.Pure(r.String())
//			})))
//	result := parley.Exec(c, login)
package parley

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parley_test

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/parley"
)

// guessingGame is a number-guessing peer. Each line written to it is
// answered on out, the pipe the player's session reads.
type guessingGame struct {
	out     *parley.Pipe
	secrets []int
	turn    int
}

func (g *guessingGame) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSuffix(string(p), "\n"), "\n") {
		g.answer(strings.TrimSpace(line))
	}
	return len(p), nil
}

func (g *guessingGame) answer(line string) {
	if line == "exit" {
		g.out.WriteString("Goodbye!\n")
		g.out.Close()
		return
	}
	var reply string
	if n, err := strconv.Atoi(line); err == nil {
		switch secret := g.secrets[0]; {
		case n < secret:
			reply = "too low\n"
		case n > secret:
			reply = "too high\n"
		default:
			reply = "correct!\nReady\n"
			g.secrets = g.secrets[1:]
		}
	}
	fmt.Fprintf(g.out, "%s%d>\n", reply, g.turn)
	g.turn++
}

type player struct {
	min, max int
	guesses  int
	wins     int
}

func (p player) guess() int { return (p.min + p.max) / 2 }

func TestGuessingGame(t *testing.T) {
	const games = 2
	out := parley.NewPipe(0)
	game := &guessingGame{out: out, secrets: []int{37, 82}}
	s := parley.New(out)
	s.SetMaxRead(100)
	c := parley.NewConversation(s, game)

	verdict := []parley.Case{
		parley.On(parley.Text("too low"), parley.Return(-1)),
		parley.On(parley.Text("too high"), parley.Return(1)),
		parley.On(parley.Text("correct"), parley.Return(0)),
	}
	play := parley.Loop(player{max: 100}, func(p player) kont.Eff[kont.Either[player, string]] {
		g := p.guess()
		return parley.SendLineThen(strconv.Itoa(g),
			parley.ExpectBind(parley.Seconds(2), verdict, func(r parley.Result) kont.Eff[kont.Either[player, string]] {
				p.guesses++
				if p.guesses > 8 {
					return kont.Pure(kont.Right[player, string]("I lost"))
				}
				switch r.Value() {
				case -1:
					p.min = g + 1
				case 1:
					p.max = g - 1
				default:
					p.wins++
					if p.wins == games {
						return parley.SendLineThen("exit", kont.Pure(kont.Right[player, string]("finished")))
					}
					p = player{max: 100, wins: p.wins}
				}
				return kont.Pure(kont.Left[player, string](p))
			}))
	})
	hello := []parley.Case{parley.On(parley.Text(">"), parley.Action{})}
	protocol := parley.SendLineThen("", parley.ExpectThen(parley.Seconds(2), hello, play))

	got, err := parley.Run(c, protocol)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "finished" {
		t.Fatalf("got %q, want finished", got)
	}
	if len(game.secrets) != 0 {
		t.Fatalf("%d games left unplayed", len(game.secrets))
	}

	r, err := s.Expect(parley.Seconds(2),
		parley.On(parley.Text("Goodbye!"), parley.Return("bye")),
		parley.On(parley.EOF(), parley.Return("eof")),
	)
	if v := value(t, r, err); v != "bye" {
		t.Fatalf("got %v, want bye", v)
	}
}

func TestLoopCountdown(t *testing.T) {
	// The peer counts down; the loop answers each number until zero.
	p := closedPipe("3\n", "2\n", "1\n", "0\n")
	s := parley.New(p)
	s.SetMaxRead(8)
	var sent strings.Builder
	c := parley.NewConversation(s, &sent)

	number := []parley.Case{parley.On(parley.Regexp(`(\d+)\n`), parley.Action{})}
	protocol := parley.ExpectLoop(0, parley.Seconds(1), number, func(seen int, r parley.Result) kont.Eff[kont.Either[int, int]] {
		m, _ := r.Match()
		if string(m.Group(1)) == "0" {
			return kont.Pure(kont.Right[int, int](seen))
		}
		return parley.SendLineThen("ack "+string(m.Group(1)), kont.Pure(kont.Left[int, int](seen+1)))
	})

	got, err := parley.Run(c, protocol)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
	if want := "ack 3\nack 2\nack 1\n"; sent.String() != want {
		t.Fatalf("sent %q, want %q", sent.String(), want)
	}
}

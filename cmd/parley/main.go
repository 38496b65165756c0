// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command parley runs a YAML dialogue script against a peer reachable
// over TCP, a file or FIFO, or standard input.
//
//	parley -script login.yaml -connect localhost:2323
//	parley -script game.yaml -file /tmp/game.out -reply /tmp/game.in
//	producer | parley -script check.yaml
//
// Every flag can be set from the environment with a PARLEY_ prefix,
// for example PARLEY_SCRIPT=login.yaml.
package main

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/fatih/color"
	"github.com/namsral/flag"
	"github.com/pkg/errors"

	"code.hybscloud.com/parley"
	"code.hybscloud.com/parley/internal/script"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

type config struct {
	script  string
	connect string
	file    string
	reply   string
	maxRead int
	verbose bool
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(exitUsage)
	}
	results, err := run(cfg)
	for i, r := range results {
		green.Fprintf(os.Stderr, "step result %d: ", i)
		fmt.Fprintf(os.Stderr, "%v\n", r)
	}
	if err != nil {
		red.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(exitFailure)
	}
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSetWithEnvPrefix("parley", "PARLEY", flag.ContinueOnError)
	fs.StringVar(&cfg.script, "script", "", "dialogue script (YAML)")
	fs.StringVar(&cfg.connect, "connect", "", "TCP address of the peer")
	fs.StringVar(&cfg.file, "file", "", "file or FIFO to read the peer's output from")
	fs.StringVar(&cfg.reply, "reply", "", "file or FIFO to write replies to (default stdout)")
	fs.IntVar(&cfg.maxRead, "maxread", 0, "bytes read per iteration, overrides the script")
	fs.BoolVar(&cfg.verbose, "verbose", false, "trace matching to stderr")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.script == "" {
		return cfg, errors.New("-script is required")
	}
	if cfg.connect != "" && cfg.file != "" {
		return cfg, errors.New("-connect and -file are exclusive")
	}
	return cfg, nil
}

func run(cfg config) ([]any, error) {
	f, err := os.Open(cfg.script)
	if err != nil {
		return nil, errors.Wrap(err, "open script")
	}
	sc, err := script.Load(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	src, w, closeAll, err := open(cfg)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	s := parley.New(src)
	if cfg.verbose {
		s.SetVerbose(true, os.Stderr)
	}
	if cfg.maxRead > 0 {
		sc.MaxRead = cfg.maxRead
	}
	return sc.Run(s, w)
}

// open selects the source and reply writer from the configuration.
func open(cfg config) (parley.Source, io.Writer, func(), error) {
	if cfg.connect != "" {
		conn, err := net.Dial("tcp", cfg.connect)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "connect")
		}
		return parley.NewDeadlineReader(conn, 0), conn, func() { conn.Close() }, nil
	}

	in := os.Stdin
	if cfg.file != "" {
		f, err := os.Open(cfg.file)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "open source")
		}
		in = f
	}
	var out io.Writer = os.Stdout
	var replyFile *os.File
	if cfg.reply != "" {
		f, err := os.OpenFile(cfg.reply, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			if in != os.Stdin {
				in.Close()
			}
			return nil, nil, nil, errors.Wrap(err, "open reply")
		}
		replyFile = f
		out = f
	}
	closeAll := func() {
		if in != os.Stdin {
			in.Close()
		}
		if replyFile != nil {
			replyFile.Close()
		}
	}
	return parley.NewFile(in, 0), out, closeAll, nil
}

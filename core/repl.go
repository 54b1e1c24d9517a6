// Package core drives the shell: it reads lines, hands them to the
// tokenizer, dispatches the resulting command, and routes its output
// through the redirection engine.
package core

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/gish-shell/gish/core/config"
	"github.com/gish-shell/gish/core/logger"
	"github.com/gish-shell/gish/core/redirect"
	"github.com/gish-shell/gish/core/shell"
)

var promptColor = color.New(color.FgGreen, color.Bold)

// IOConfig carries a session's streams and terminal hooks. For the local
// CLI these are the process's own streams; for SSH sessions they belong to
// the connection.
type IOConfig struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal and Width are optional; readline falls back to its own
	// detection when they are nil.
	IsTerminal func() bool
	Width      func() int
}

// Shell is one interactive session.
type Shell struct {
	Config   *config.Configuration
	Readline *readline.Instance
	Dispatch *Dispatcher
	Engine   *redirect.Engine

	log    *logger.SessionLogger
	tok    shell.Tokenizer
	stderr io.Writer
	isTerm func() bool
}

// NewShell wires a shell session around the given streams.
func NewShell(cfg *config.Configuration, log *logger.SessionLogger, sio IOConfig) (*Shell, error) {
	rlCfg := &readline.Config{
		Stdin:          readline.NewCancelableStdin(sio.Stdin),
		Stdout:         sio.Stdout,
		Stderr:         sio.Stderr,
		HistoryFile:    cfg.HistoryFile,
		FuncIsTerminal: sio.IsTerminal,
		FuncGetWidth:   sio.Width,
	}
	if err := rlCfg.Init(); err != nil {
		return nil, err
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	var trace io.Writer
	if cfg.Trace {
		trace = sio.Stderr
	}

	return &Shell{
		Config:   cfg,
		Readline: rl,
		Dispatch: &Dispatcher{Stdin: sio.Stdin},
		Engine:   redirect.NewEngine(afero.NewOsFs(), sio.Stdout, sio.Stderr),
		log:      log,
		tok:      shell.Tokenizer{Trace: trace},
		stderr:   sio.Stderr,
		isTerm:   sio.IsTerminal,
	}, nil
}

func (s *Shell) prompt() string {
	prompt := s.Config.Prompt
	if prompt == "" {
		prompt = "$ "
	}

	colorize := !color.NoColor
	if s.isTerm != nil {
		colorize = s.isTerm()
	}
	if colorize {
		return promptColor.Sprint(prompt)
	}
	return prompt
}

// Run is the read-eval-print loop. It returns the exit status requested by
// the exit builtin, 0 when input closes.
func (s *Shell) Run() (int, error) {
	defer s.Readline.Close()

	for {
		s.Readline.SetPrompt(s.prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return 0, nil
		case err == readline.ErrInterrupt:
			continue
		case err != nil:
			return 0, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmdline, err := s.tok.Tokenize(line)
		if err != nil {
			// All parse errors are recoverable: report and re-prompt.
			fmt.Fprintf(s.stderr, "gish: %v\n", err)
			s.log.ParseError(line, err)
			continue
		}

		if len(cmdline.Args) == 0 {
			// A bare redirection still touches its targets.
			s.Engine.Apply(cmdline.Redirections, shell.Output{})
			continue
		}

		out, err := s.Dispatch.Dispatch(cmdline.Args[0], cmdline.Args[1:])
		var exit *ExitRequest
		if errors.As(err, &exit) {
			return exit.Code, nil
		}

		s.log.CommandRun(line, cmdline.Args)
		s.Engine.Apply(cmdline.Redirections, out)
	}
}

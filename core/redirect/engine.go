// Package redirect writes command output to its final destinations:
// redirection target files, or the process's inherited standard streams.
package redirect

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/afero"

	"github.com/gish-shell/gish/core/shell"
)

// Engine materializes the side effects of a parsed Redirections record.
// File access goes through Fs so tests can run on a memory filesystem.
type Engine struct {
	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
}

func NewEngine(fs afero.Fs, stdout, stderr io.Writer) *Engine {
	return &Engine{Fs: fs, Stdout: stdout, Stderr: stderr}
}

// Apply routes out's bytes according to r.
//
// Each stream is handled independently: an unredirected stream goes to the
// engine's own stdout/stderr, a redirected one to the last target named for
// it, with every earlier target created and truncated first. When the two
// streams were merged (`2>&1`, `>&2`, `&>`) they share one record and the
// surviving destination is opened exactly once, receiving stdout's bytes
// followed by stderr's.
//
// IO failures are reported to the engine's Stderr with the offending path
// and never stop the other stream's redirection.
func (e *Engine) Apply(r *shell.Redirections, out shell.Output) {
	if r.Merged() {
		e.applyStream(r.Stdout, out.Stdout, out.Stderr)
		return
	}
	e.applyStream(r.Stdout, out.Stdout)
	e.applyStream(r.Stderr, out.Stderr)
}

func (e *Engine) applyStream(sr *shell.StreamRedirection, bufs ...[]byte) {
	if n := len(sr.Targets); sr.Mode != shell.ModeNone && n > 1 {
		// Non-final targets of a chain are still touched even though they
		// receive no data.
		for _, path := range sr.Targets[:n-1] {
			if path == "" {
				continue
			}
			if err := e.truncate(path); err != nil {
				e.report(path, err)
			}
		}
	}

	final := sr.Last()
	if sr.Mode == shell.ModeNone || final == "" {
		// No effective file target; a trailing redirection with nothing
		// after it falls back to the console.
		e.console(sr.Console, bufs)
		return
	}

	flag := os.O_WRONLY | os.O_CREATE
	if sr.Mode == shell.ModeAppend {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}
	fd, err := e.Fs.OpenFile(final, flag, 0644)
	if err != nil {
		e.report(final, err)
		return
	}
	defer fd.Close()

	for _, buf := range bufs {
		if _, err := fd.Write(buf); err != nil {
			e.report(final, err)
			return
		}
	}
}

func (e *Engine) truncate(path string) error {
	fd, err := e.Fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	return fd.Close()
}

func (e *Engine) console(target shell.FD, bufs [][]byte) {
	w := e.Stdout
	if target == shell.FDStderr {
		w = e.Stderr
	}
	for _, buf := range bufs {
		if _, err := w.Write(buf); err != nil {
			e.report(target.String(), err)
			return
		}
	}
}

// report prints an IO failure the way a shell does: the path and the OS
// error text, without the Go path-error wrapping.
func (e *Engine) report(path string, err error) {
	var perr *fs.PathError
	if errors.As(err, &perr) {
		err = perr.Err
	}
	fmt.Fprintf(e.Stderr, "gish: %s: %v\n", path, err)
}

package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/gish-shell/gish/core/shell"
)

// Builtin is a command implemented inside the shell process. It writes its
// output to the supplied buffers; returning an error aborts the shell
// (only the exit builtin does, via *ExitRequest).
type Builtin func(stdout, stderr *bytes.Buffer, args []string) error

// AllBuiltins holds the registered shell builtins, keyed by name.
var AllBuiltins = make(map[string]Builtin)

// lookPath resolves external commands; swapped out in tests.
var lookPath = exec.LookPath

// ExitRequest is surfaced through Dispatch when the exit builtin asks the
// process to terminate. It is fatal and bypasses the redirection engine.
type ExitRequest struct {
	Code int
}

func (e *ExitRequest) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// Dispatcher resolves a command name against the builtin table and falls
// through to a PATH search for external programs. It always produces an
// Output pair; "command not found" populates stderr rather than failing.
type Dispatcher struct {
	// Stdin is handed to external programs.
	Stdin io.Reader
}

func (d *Dispatcher) Dispatch(name string, args []string) (shell.Output, error) {
	if builtin, ok := AllBuiltins[name]; ok {
		var stdout, stderr bytes.Buffer
		err := builtin(&stdout, &stderr, args)
		return shell.Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
	}
	return d.runExternal(name, args), nil
}

func (d *Dispatcher) runExternal(name string, args []string) shell.Output {
	var stdout, stderr bytes.Buffer

	path, err := lookPath(name)
	switch {
	case errors.Is(err, exec.ErrNotFound):
		fmt.Fprintf(&stderr, "%s: command not found\n", name)
		return shell.Output{Stderr: stderr.Bytes()}
	case err != nil:
		fmt.Fprintf(&stderr, "%s: %v\n", name, err)
		return shell.Output{Stderr: stderr.Bytes()}
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin = d.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		// A non-zero exit already reported itself on stderr; anything
		// else is the shell's to explain.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(&stderr, "%s: %v\n", name, err)
		}
	}

	return shell.Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
}

package shell

import (
	"fmt"
	"io"
)

// FD identifies one of the process's standard output streams.
type FD int

const (
	FDStdout FD = 1
	FDStderr FD = 2
)

func (fd FD) String() string {
	switch fd {
	case FDStdout:
		return "stdout"
	case FDStderr:
		return "stderr"
	default:
		return fmt.Sprintf("fd(%d)", int(fd))
	}
}

// Mode selects how a redirection target is opened.
type Mode int

const (
	// ModeNone means the stream is not redirected.
	ModeNone Mode = iota
	// ModeOverwrite truncates the target before writing (`>`).
	ModeOverwrite
	// ModeAppend extends the target (`>>`).
	ModeAppend
)

func (m Mode) String() string {
	switch m {
	case ModeOverwrite:
		return "overwrite"
	case ModeAppend:
		return "append"
	default:
		return "none"
	}
}

// StreamRedirection collects every target named for one output stream on a
// single command line. Targets accumulate in encounter order; only the last
// one receives data but the earlier ones are still created and truncated,
// matching bash.
type StreamRedirection struct {
	Mode    Mode
	Targets []string

	// Console is the stream the bytes fall back to when no usable file
	// target exists. After an fd merge both streams share one record, so
	// this may name the other stream.
	Console FD
}

// Last returns the effective target path, empty when none was named.
func (sr *StreamRedirection) Last() string {
	if len(sr.Targets) == 0 {
		return ""
	}
	return sr.Targets[len(sr.Targets)-1]
}

func (sr *StreamRedirection) String() string {
	if sr.Mode == ModeNone && len(sr.Targets) == 0 {
		return "console " + sr.Console.String()
	}
	return fmt.Sprintf("%s %q", sr.Mode, sr.Targets)
}

// Redirections holds the per-stream redirection records for one command
// line. After `2>&1`, `>&2`, `&>` or `&>>` both fields point at the same
// record, so targets named later extend the merged destination.
type Redirections struct {
	Stdout *StreamRedirection
	Stderr *StreamRedirection
}

// NewRedirections returns a record pair with nothing redirected.
func NewRedirections() *Redirections {
	return &Redirections{
		Stdout: &StreamRedirection{Console: FDStdout},
		Stderr: &StreamRedirection{Console: FDStderr},
	}
}

// Merged reports whether the two streams share one destination record.
func (r *Redirections) Merged() bool {
	return r.Stdout == r.Stderr
}

// CommandLine is the parsed form of one line of input: the command and its
// arguments, plus whatever redirections were embedded in the line.
type CommandLine struct {
	Args         []string
	Redirections *Redirections
}

// Dump writes a human readable description of the parse. Used by the
// `parse` subcommand and by golden tests.
func (c *CommandLine) Dump(w io.Writer) {
	fmt.Fprintf(w, "args: %q\n", c.Args)
	fmt.Fprintf(w, "stdout: %s\n", c.Redirections.Stdout)
	if c.Redirections.Merged() {
		fmt.Fprintln(w, "stderr: merged with stdout")
	} else {
		fmt.Fprintf(w, "stderr: %s\n", c.Redirections.Stderr)
	}
}

// Output holds the raw bytes a command produced on each stream. Byte
// slices rather than strings: commands may emit non UTF-8 data.
type Output struct {
	Stdout []byte
	Stderr []byte
}

package shell

import "fmt"

// LexReason identifies which non-terminal state the lexer was left in when
// the input ran out.
type LexReason int

const (
	UnmatchedSingleQuote LexReason = iota
	UnmatchedDoubleQuote
	UnmatchedEscape
)

func (r LexReason) String() string {
	switch r {
	case UnmatchedSingleQuote:
		return "unmatched single quotes"
	case UnmatchedDoubleQuote:
		return "unmatched double quotes"
	case UnmatchedEscape:
		return "unmatched escape character"
	default:
		return "invalid input"
	}
}

// LexError reports input that ended inside a quote or escape sequence. The
// command is discarded and the REPL prompts again.
type LexError struct {
	Reason LexReason
}

func (e *LexError) Error() string {
	return e.Reason.String()
}

// SyntaxError reports a malformed redirection operator sequence, or an
// operator the shell recognizes but does not implement (`&`, `&&`).
type SyntaxError struct {
	Token         string
	Unimplemented bool
}

func (e *SyntaxError) Error() string {
	if e.Unimplemented {
		return fmt.Sprintf("unimplemented `%s'", e.Token)
	}
	return fmt.Sprintf("unexpected token `%s'", e.Token)
}

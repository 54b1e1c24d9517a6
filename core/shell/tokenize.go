// Package shell parses one line of user input into words and output
// redirections.
//
// Quoting follows the POSIX rules for field splitting and quote removal:
//
//   - Runs of unquoted whitespace separate words; quoted whitespace is kept.
//   - Adjacent quoted and unquoted fragments concatenate into one word
//     (a''b parses as ab).
//   - Single quotes preserve the literal value of every character.
//   - Double quotes preserve everything except a backslash followed by
//     one of \ " $ ` or newline.
//   - An unquoted backslash preserves the literal value of the next
//     character.
//
// See the Token Recognition section of POSIX.1-2017 chapter 2 and the Bash
// Reference Manual sections on quoting.
package shell

import (
	"fmt"
	"io"
)

// lexState is the quoting state of the lexer. Exactly one is active at a
// time and only stateUnquoted is acceptable at end of input.
type lexState int

const (
	// No quotes are active.
	stateUnquoted lexState = iota
	// A single quote is open.
	stateSingle
	// A double quote is open.
	stateDouble
	// No quotes are active and a backslash escape is pending.
	stateUnquotedEscape
	// A double quote is open and a backslash escape is pending.
	stateDoubleEscape
)

func (s lexState) String() string {
	switch s {
	case stateUnquoted:
		return "unquoted"
	case stateSingle:
		return "single"
	case stateDouble:
		return "double"
	case stateUnquotedEscape:
		return "unquoted-escape"
	case stateDoubleEscape:
		return "double-escape"
	default:
		return fmt.Sprintf("lexState(%d)", int(s))
	}
}

// Tokenizer splits lines of input into words and redirections. The zero
// value is ready to use.
type Tokenizer struct {
	// Trace, when non-nil, receives one line per consumed character with
	// the resulting state and word buffer.
	Trace io.Writer
}

// Tokenize parses one line of input. On success it returns the command
// words and the redirections that were embedded in the line; on failure the
// error is a *LexError or a *SyntaxError and the line should be discarded.
func (t *Tokenizer) Tokenize(line string) (*CommandLine, error) {
	l := &lexer{
		input:  []rune(line),
		redirs: NewRedirections(),
		trace:  t.Trace,
	}
	return l.run()
}

// Tokenize parses line with a zero-value Tokenizer.
func Tokenize(line string) (*CommandLine, error) {
	var t Tokenizer
	return t.Tokenize(line)
}

// lexer holds the state of one Tokenize call.
type lexer struct {
	input []rune
	pos   int
	state lexState
	trace io.Writer

	// word accumulates the current token. quoted records whether a quote
	// pair contributed to it, so that empty quoted words survive flushing.
	word   []rune
	quoted bool

	args   []string
	redirs *Redirections

	// sel is the stream whose target path is being accumulated, nil when
	// the current word is an ordinary argument. It stays set across
	// whitespace until a target word completes.
	sel *StreamRedirection
}

func (l *lexer) run() (*CommandLine, error) {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		l.pos++
		if err := l.step(ch); err != nil {
			return nil, err
		}
		if l.trace != nil {
			fmt.Fprintf(l.trace, "%c -> %v\t%s\n", ch, l.state, string(l.word))
		}
	}

	switch l.state {
	case stateUnquoted:
		// Terminal state, input is complete.
	case stateSingle:
		return nil, &LexError{Reason: UnmatchedSingleQuote}
	case stateDouble:
		return nil, &LexError{Reason: UnmatchedDoubleQuote}
	default:
		return nil, &LexError{Reason: UnmatchedEscape}
	}

	l.flushFinal()
	return &CommandLine{Args: l.args, Redirections: l.redirs}, nil
}

// step consumes a single character in the current state.
func (l *lexer) step(ch rune) error {
	switch l.state {
	case stateUnquoted:
		switch ch {
		case ' ', '\t', '\n':
			l.flushWord()
		case '\'':
			l.state = stateSingle
			l.quoted = true
		case '"':
			l.state = stateDouble
			l.quoted = true
		case '\\':
			l.word = append(l.word, ch)
			l.state = stateUnquotedEscape
		case '>':
			return l.angle()
		case '&':
			return l.ampersand()
		default:
			l.word = append(l.word, ch)
		}

	case stateSingle:
		if ch == '\'' {
			l.state = stateUnquoted
		} else {
			l.word = append(l.word, ch)
		}

	case stateDouble:
		switch ch {
		case '"':
			l.state = stateUnquoted
		case '\\':
			l.word = append(l.word, ch)
			l.state = stateDoubleEscape
		default:
			l.word = append(l.word, ch)
		}

	case stateUnquotedEscape:
		// The escape preserves the literal value of any next character;
		// it replaces the backslash pushed when the escape opened.
		l.word[len(l.word)-1] = ch
		l.state = stateUnquoted

	case stateDoubleEscape:
		switch ch {
		case '\\', '"', '$', '`', '\n':
			// Only these lose the backslash inside double quotes.
			l.word[len(l.word)-1] = ch
		default:
			l.word = append(l.word, ch)
		}
		l.state = stateDouble
	}
	return nil
}

// peek returns the next unconsumed character, 0 at end of input.
func (l *lexer) peek() rune {
	if l.pos < len(l.input) {
		return l.input[l.pos]
	}
	return 0
}

// flushWord completes the current word on a whitespace boundary. While a
// redirection is open the word becomes that stream's target path, otherwise
// it becomes an argument. Empty words are dropped unless a quote pair
// produced them.
func (l *lexer) flushWord() {
	if len(l.word) == 0 && !l.quoted {
		return
	}
	w := string(l.word)
	l.word = l.word[:0]
	l.quoted = false

	if l.sel != nil {
		l.sel.Targets = append(l.sel.Targets, w)
		l.sel = nil
		return
	}
	l.args = append(l.args, w)
}

// flushFinal completes the last word at end of input. A redirection that is
// still waiting for a target records one even when it is empty; the
// redirection engine treats an empty final target as "fall back to the
// console".
func (l *lexer) flushFinal() {
	if l.sel != nil {
		l.sel.Targets = append(l.sel.Targets, string(l.word))
		l.sel = nil
		return
	}
	l.flushWord()
}

package shell

// The redirection sub-parser. It is only reachable from the lexer's
// unquoted state; a quoted or escaped `>` or `&` is an ordinary character.
//
// Supported operator forms:
//
//	> >>          redirect stdout, overwrite / append
//	1> 1>>        same, with an explicit fd number
//	2> 2>>        redirect stderr
//	2>&1  >&2     duplicate one stream onto the other's destination
//	&>  &>>       redirect both streams to one target
//
// A stream redirected more than once keeps every target; the last one wins
// and the earlier ones are still created and truncated.

// angle handles an unquoted `>`.
func (l *lexer) angle() error {
	// A pending target word closes before the operator is interpreted,
	// so `>a>b` names two targets.
	if l.sel != nil && (len(l.word) > 0 || l.quoted) {
		l.flushWord()
	}

	if l.sel != nil {
		// Consecutive operator characters: `>>` promotes the stream to
		// append mode, a third `>` has nothing left to mean.
		if l.sel.Mode == ModeAppend {
			return &SyntaxError{Token: ">"}
		}
		l.sel.Mode = ModeAppend
		return nil
	}

	// Opening a redirection. A bare unquoted "1" or "2" directly before
	// the operator is an fd number, not an argument.
	switch {
	case !l.quoted && string(l.word) == "1":
		l.word = l.word[:0]
		l.sel = l.redirs.Stdout
	case !l.quoted && string(l.word) == "2":
		l.word = l.word[:0]
		l.sel = l.redirs.Stderr
	default:
		l.flushWord()
		l.sel = l.redirs.Stdout
	}
	l.sel.Mode = ModeOverwrite
	return nil
}

// ampersand handles an unquoted `&`.
func (l *lexer) ampersand() error {
	if l.sel != nil && len(l.word) == 0 && !l.quoted {
		// `>&`: an fd duplication when the complementary stream's number
		// follows, otherwise the operator is malformed. Duplication
		// aliases the record so the stream follows the other stream's
		// destination, including targets named later on the line.
		switch {
		case l.sel == l.redirs.Stdout && l.peek() == '2':
			l.pos++
			l.redirs.Stdout = l.redirs.Stderr
		case l.sel == l.redirs.Stderr && l.peek() == '1':
			l.pos++
			l.redirs.Stderr = l.redirs.Stdout
		default:
			return &SyntaxError{Token: "&"}
		}
		l.sel = nil
		return nil
	}

	l.flushWord()
	switch l.peek() {
	case '>':
		// `&>` sends both streams to the same forthcoming target. A
		// further `>` promotes the pair to append mode (`&>>`).
		l.pos++
		l.redirs.Stderr = l.redirs.Stdout
		l.sel = l.redirs.Stdout
		l.sel.Mode = ModeOverwrite
		return nil
	case '&':
		return &SyntaxError{Token: "&&", Unimplemented: true}
	default:
		return &SyntaxError{Token: "&", Unimplemented: true}
	}
}

package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTokenize(t *testing.T, line string) *CommandLine {
	t.Helper()
	cmdline, err := Tokenize(line)
	require.NoError(t, err)
	return cmdline
}

func TestTokenizeWords(t *testing.T) {
	cases := []struct {
		input    string
		expected []string
	}{
		{`echo hello   world`, []string{"echo", "hello", "world"}},
		{`   echo  leading`, []string{"echo", "leading"}},
		{"echo\ttabs\there", []string{"echo", "tabs", "here"}},

		// Single quotes preserve everything, adjacent fragments merge.
		{`echo 'hello   world'`, []string{"echo", "hello   world"}},
		{`echo 'shell     example' 'test''script' world''hello`,
			[]string{"echo", "shell     example", "testscript", "worldhello"}},
		{`echo '"'`, []string{"echo", `"`}},
		{`echo '""'`, []string{"echo", `""`}},
		{`echo '\'`, []string{"echo", `\`}},
		{`echo '\\'`, []string{"echo", `\\`}},
		{`echo 'example\ntest'`, []string{"echo", `example\ntest`}},

		// Double quotes are literal except for the five escapables.
		{`echo "'"`, []string{"echo", `'`}},
		{`echo "''"`, []string{"echo", `''`}},
		{`echo "quz  hello"  "bar"`, []string{"echo", "quz  hello", "bar"}},
		{`echo "hello   script"  "world""shell"`,
			[]string{"echo", "hello   script", "worldshell"}},
		{`echo "\\"`, []string{"echo", `\`}},
		{`echo "\""`, []string{"echo", `"`}},
		{`echo "\'"`, []string{"echo", `\'`}},
		{`echo "\\'"`, []string{"echo", `\'`}},
		{`echo "\\\""`, []string{"echo", `\"`}},
		{`echo "\$HOME"`, []string{"echo", `$HOME`}},
		{`echo "example\ntest"`, []string{"echo", `example\ntest`}},
		{`echo "example\\ntest"`, []string{"echo", `example\ntest`}},
		{`echo "before\   after"`, []string{"echo", `before\   after`}},
		{`echo "hello\"insidequotes"script\"`,
			[]string{"echo", `hello"insidequotesscript"`}},
		{`echo "mixed\"quote'test'\\"`, []string{"echo", `mixed"quote'test'\`}},

		// Unquoted escapes preserve exactly the next character.
		{`echo \\`, []string{"echo", `\`}},
		{`echo \'`, []string{"echo", `'`}},
		{`echo \"`, []string{"echo", `"`}},
		{`echo \   test`, []string{"echo", " ", "test"}},
		{`echo script\ \ \ \ \ \ shell`, []string{"echo", "script      shell"}},
		{`echo example\ntest`, []string{"echo", "examplentest"}},
		{`echo example\\ntest`, []string{"echo", `example\ntest`}},
		{`echo \'\"shell world\"\'`, []string{"echo", `'"shell`, `world"'`}},
		{`echo \>\& nothing`, []string{"echo", ">&", "nothing"}},

		// Empty quoted words survive anywhere on the line.
		{`echo ''`, []string{"echo", ""}},
		{`echo '' x`, []string{"echo", "", "x"}},
		{`echo "" x ''`, []string{"echo", "", "x", ""}},

		// Mixed quoting merges into single words.
		{`echo  'hello   world'  'hi''"there"'  "and""again"  "it's"`,
			[]string{"echo", "hello   world", `hi"there"`, "andagain", "it's"}},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			cmdline := mustTokenize(t, tc.input)
			assert.Equal(t, tc.expected, cmdline.Args)
			assert.False(t, cmdline.Redirections.Merged())
			assert.Equal(t, ModeNone, cmdline.Redirections.Stdout.Mode)
			assert.Equal(t, ModeNone, cmdline.Redirections.Stderr.Mode)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		input  string
		reason LexReason
	}{
		{`echo '`, UnmatchedSingleQuote},
		{`echo '''`, UnmatchedSingleQuote},
		{`echo '\''`, UnmatchedSingleQuote},
		{`echo "`, UnmatchedDoubleQuote},
		{`echo """`, UnmatchedDoubleQuote},
		{`echo \`, UnmatchedEscape},
		{`echo "\`, UnmatchedEscape},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			_, err := Tokenize(tc.input)
			require.Error(t, err)

			lexErr, ok := err.(*LexError)
			require.True(t, ok, "want *LexError, got %T", err)
			assert.Equal(t, tc.reason, lexErr.Reason)
			assert.Equal(t, tc.reason.String(), err.Error())
		})
	}
}

// Re-joining tokens with a single space and re-tokenizing keeps the token
// list stable once quoting has been removed.
func TestTokenizeRejoinStable(t *testing.T) {
	inputs := []string{
		`echo   hello    world`,
		`echo 'abc' "def" ghi`,
		`printf "%s"  'fmt'  arg`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := mustTokenize(t, input)
			second := mustTokenize(t, strings.Join(first.Args, " "))
			assert.Equal(t, first.Args, second.Args)
		})
	}
}

// Lines without quoting, escape, or redirection metacharacters split
// exactly like whitespace field splitting.
func TestTokenizePlainFieldSplitting(t *testing.T) {
	inputs := []string{
		"a b c",
		"  spaced   out\twords  ",
		"one",
		"",
		"   ",
	}

	for _, input := range inputs {
		t.Run("plain:"+input, func(t *testing.T) {
			cmdline := mustTokenize(t, input)
			expected := strings.Fields(input)
			if len(expected) == 0 {
				assert.Empty(t, cmdline.Args)
				return
			}
			assert.Equal(t, expected, cmdline.Args)
		})
	}
}

func TestTokenizeTrace(t *testing.T) {
	var trace strings.Builder
	tok := Tokenizer{Trace: &trace}

	_, err := tok.Tokenize(`a 'b'`)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(trace.String(), "\n"), "\n")
	// One line per input character.
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[2], "single")
}

package core

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"
)

func init() {
	AllBuiltins["cd"] = Cd
	AllBuiltins["echo"] = Echo
	AllBuiltins["exit"] = Exit
	AllBuiltins["pwd"] = Pwd
	AllBuiltins["type"] = Type
}

// Cd changes the process working directory; with no argument it moves to
// $HOME.
func Cd(stdout, stderr *bytes.Buffer, args []string) error {
	var dir string
	switch len(args) {
	case 0:
		dir = os.Getenv("HOME")
	case 1:
		dir = args[0]
	default:
		fmt.Fprintln(stderr, "cd: too many arguments")
		return nil
	}

	if err := os.Chdir(dir); err != nil {
		var perr *fs.PathError
		if errors.As(err, &perr) {
			err = perr.Err
		}
		fmt.Fprintf(stderr, "cd: %s: %v\n", dir, err)
	}
	return nil
}

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-8][0-8]?[0-8]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\b`, "\b", // backspace
		`\a`, "\a", // alert
		`\f`, "\f", // form feed
		`\v`, "\v", // vertical tab
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 8, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 16, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	return s
}

// Echo displays a line of text.
func Echo(stdout, stderr *bytes.Buffer, args []string) error {
	opts := getopt.New()
	noNewline := opts.Bool('n', "do not output the trailing newline")
	escapes := opts.Bool('e', "interpret backslash escapes")

	if err := opts.Getopt(append([]string{"echo"}, args...), nil); err != nil {
		fmt.Fprintf(stderr, "echo: %v\n", err)
		return nil
	}

	for i, arg := range opts.Args() {
		if i > 0 {
			fmt.Fprint(stdout, " ")
		}
		if *escapes {
			arg = unescape(arg)
		}
		fmt.Fprint(stdout, arg)
	}
	if !*noNewline {
		fmt.Fprintln(stdout)
	}
	return nil
}

// Exit requests process termination with the given status, 0 by default.
// An unparsable status is reported and the shell keeps running.
func Exit(stdout, stderr *bytes.Buffer, args []string) error {
	if len(args) == 0 {
		return &ExitRequest{Code: 0}
	}

	code, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		fmt.Fprintf(stderr, "exit: invalid exit code: %s\n", args[0])
		return nil
	}
	return &ExitRequest{Code: code}
}

// Pwd prints the working directory.
func Pwd(stdout, stderr *bytes.Buffer, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "pwd: %v\n", err)
		return nil
	}
	fmt.Fprintln(stdout, wd)
	return nil
}

// Type reports how each name would be interpreted: builtins first, then
// executables on PATH.
func Type(stdout, stderr *bytes.Buffer, args []string) error {
	for _, name := range args {
		if _, ok := AllBuiltins[name]; ok {
			fmt.Fprintf(stdout, "%s is a shell builtin\n", name)
			continue
		}
		if path, err := lookPath(name); err == nil {
			fmt.Fprintf(stdout, "%s is %s\n", name, path)
			continue
		}
		fmt.Fprintf(stderr, "%s: not found\n", name)
	}
	return nil
}

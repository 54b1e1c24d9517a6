package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gish-shell/gish/core/shell"
)

var parseTrace bool

// parseCmd tokenizes a line without executing it, for debugging quoting and
// redirection edge cases.
var parseCmd = &cobra.Command{
	Use:   "parse LINE...",
	Short: "Tokenize a command line and print the parse.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		tok := shell.Tokenizer{}
		if parseTrace {
			tok.Trace = cmd.ErrOrStderr()
		}

		cmdline, err := tok.Tokenize(strings.Join(args, " "))
		if err != nil {
			return err
		}
		cmdline.Dump(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseTrace, "trace", false, "dump per-character state transitions to stderr")
	rootCmd.AddCommand(parseCmd)
}

package cmd

import (
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gish-shell/gish/core"
	"github.com/gish-shell/gish/core/config"
	"github.com/gish-shell/gish/core/logger"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	return config.Load(afero.NewOsFs(), cfgPath)
}

// openLogger returns the event logger for the configuration, a no-op one
// when no event log is configured.
func openLogger(configuration *config.Configuration) (*logger.Logger, io.Closer, error) {
	if configuration.EventLog == "" {
		return logger.NewNopLogger(), nil, nil
	}
	fd, err := os.OpenFile(configuration.EventLog, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}
	return logger.NewJSONLinesRecorder(fd), fd, nil
}

// rootCmd represents the base command: an interactive shell.
var rootCmd = &cobra.Command{
	Use:   "gish",
	Short: "A small POSIX-style shell",
	Long: `gish is an interactive shell with POSIX quoting and output
redirection: >, >>, fd-numbered and duplication forms (2>, 2>&1), and the
combined forms &> and &>>.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		eventLog, closer, err := openLogger(configuration)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		sh, err := core.NewShell(configuration, eventLog.NewSession(), core.IOConfig{
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		})
		if err != nil {
			return err
		}

		code, err := sh.Run()
		if err != nil {
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config path (defaults apply when unset)")
}

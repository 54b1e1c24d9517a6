// Package config holds the shell's configuration. Values are threaded into
// the tokenizer and REPL at construction time; there are no process-wide
// toggles.
package config

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const ConfigurationName = "config.yaml"

type Configuration struct {
	// Prompt is printed before each line of input.
	Prompt string `json:"prompt" validate:"required"`
	// HistoryFile persists readline history when set.
	HistoryFile string `json:"history_file"`
	// Trace dumps the tokenizer's per-character state transitions to
	// stderr. Useful when debugging quoting edge cases.
	Trace bool `json:"trace"`
	// EventLog appends JSON-lines session events to the named file.
	EventLog string `json:"event_log"`

	SSH SSH `json:"ssh"`
}

// SSH configures the optional network front end used by `gish serve`.
type SSH struct {
	Port int `json:"port" validate:"gte=0,lte=65535"`
	// Password is required from clients; serving is refused when empty.
	Password string `json:"password"`
	// HostKeyPath names a PEM host key. An ephemeral key is generated
	// when unset.
	HostKeyPath string `json:"host_key_path"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

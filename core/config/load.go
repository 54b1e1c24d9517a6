package config

import (
	_ "embed"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// Default returns the built-in configuration.
func Default() *Configuration {
	var out Configuration
	// The embedded default is validated by tests; it can't fail here.
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Load reads the configuration from path. A path naming a directory loads
// the config.yaml inside it; an empty path yields the defaults.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	if path == "" {
		return Default(), nil
	}
	if ok, err := afero.IsDir(fs, path); err == nil && ok {
		path = filepath.Join(path, ConfigurationName)
	}

	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	out := Default()
	if err := yaml.UnmarshalStrict(contents, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "$ ", cfg.Prompt)
}

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/gish/config.yaml", []byte(
		"prompt: \"% \"\ntrace: true\n"), 0644))

	cfg, err := Load(fs, "/etc/gish/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "% ", cfg.Prompt)
	assert.True(t, cfg.Trace)
	// Untouched keys keep their defaults.
	assert.Equal(t, 2022, cfg.SSH.Port)
}

func TestLoadDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/etc/gish", 0755))
	require.NoError(t, afero.WriteFile(fs, "/etc/gish/config.yaml", []byte(
		"prompt: \"> \"\n"), 0644))

	cfg, err := Load(fs, "/etc/gish")
	require.NoError(t, err)
	assert.Equal(t, "> ", cfg.Prompt)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope/config.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.yaml", []byte(
		"prompt: \"$ \"\nbogus_key: 1\n"), 0644))

	_, err := Load(fs, "config.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("missing prompt", func(t *testing.T) {
		cfg := Default()
		cfg.Prompt = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := Default()
		cfg.SSH.Port = 123456
		assert.Error(t, cfg.Validate())
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
log = "debug"
trusted = false
disable_mimetypes = ["text/latex"]
compact = "no-images"
redact = ["secrets"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log)
	assert.False(t, cfg.Trusted)
	assert.Equal(t, []string{"text/latex"}, cfg.DisableMimeTypes)
	assert.Equal(t, "no-images", cfg.Compact)
	assert.Equal(t, []string{"secrets"}, cfg.Redact)
	assert.Equal(t, "dracula", cfg.HighlightStyle, "unset keys keep defaults")
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, path, cfg.Source)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("log = "), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

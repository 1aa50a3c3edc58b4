// Package config loads the optional nbout TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the persisted configuration schema. Command-line flags take
// precedence over every field.
type Config struct {
	Log              string   `toml:"log"`
	HighlightStyle   string   `toml:"highlight_style"`
	Trusted          bool     `toml:"trusted"`
	DisableMimeTypes []string `toml:"disable_mimetypes"`
	Compact          string   `toml:"compact"`
	Redact           []string `toml:"redact"`
	Port             int      `toml:"port"`

	// Source is the file the config was read from, empty when defaults
	// were used.
	Source string `toml:"-"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Log:            "error",
		HighlightStyle: "dracula",
		Trusted:        true,
		Port:           8080,
	}
}

// DefaultPath returns ~/.config/nbout/config.toml, or "" when the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "nbout", "config.toml")
}

// Load reads the config at path, falling back to DefaultPath when path is
// empty. A missing file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

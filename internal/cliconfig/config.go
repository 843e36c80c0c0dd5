// Package cliconfig loads the optional neobrew TOML configuration file,
// the one piece of persistent user-facing configuration outside of
// environment variables and flags.
package cliconfig

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user overrides read from ~/.config/neobrew/config.toml.
// Every field has a zero value that means "use the built-in default".
type Config struct {
	// CacheDir overrides appctx.DefaultCacheDir when non-empty.
	CacheDir string `toml:"cache_dir"`

	// Color holds a color mode: "auto", "always", or "never". It is decoded
	// but not applied; the --color flag alone selects the color mode.
	Color string `toml:"color"`
}

// DefaultPath returns ~/.config/neobrew/config.toml, honoring
// XDG_CONFIG_HOME when set.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "neobrew", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "neobrew", "config.toml")
}

// Load reads and decodes the config file at path. A missing file is not
// an error: it returns the zero Config, which means every field falls
// back to its default.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

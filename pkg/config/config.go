// Package config persists the small application settings set: theme,
// thumbnail display, the legacy-prune toggle, and the last-used manifest
// path. Settings are stored as TOML and passed into the core as plain
// values, never reached into as globals.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// appDirName is the directory under the user config root.
const appDirName = "fswrangler"

// Config is the persisted application configuration.
type Config struct {
	// Theme selects the terminal color theme ("dark" or "light").
	Theme string `toml:"theme"`

	// ShowThumbnails toggles thumbnail discovery in the browser.
	ShowThumbnails bool `toml:"show_thumbnails"`

	// CleanLegacyFS20 prunes legacy community-fs20 entries on save.
	CleanLegacyFS20 bool `toml:"clean_legacy_fs20"`

	// ManifestPath is the last-used manifest location, "" if never set.
	ManifestPath string `toml:"manifest_path"`
}

// Default returns the configuration used when no file exists yet.
func Default() Config {
	return Config{
		Theme:           "dark",
		ShowThumbnails:  false,
		CleanLegacyFS20: true,
	}
}

// DefaultPath returns the standard config file location
// (~/.config/fswrangler/config.toml or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, "config.toml"), nil
}

// Load reads the configuration from path. On any read or parse failure it
// returns the defaults along with the failure so the caller can log the
// degradation; configuration errors are never fatal.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
// Write failures are surfaced to the caller.
func (c Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// Package config loads operator defaults for the CLI: creator identity,
// default mode, output directory, and the audit log location. The engine
// itself never reads configuration; every validation and packaging call
// takes explicit arguments.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Settings mirrors the on-disk TOML file. Every field is optional; zero
// values fall back to built-in defaults.
type Settings struct {
	Creator CreatorDefaults `toml:"creator"`
	Pack    PackDefaults    `toml:"pack"`
	Audit   AuditSettings   `toml:"audit"`
}

type CreatorDefaults struct {
	Name    string `toml:"name"`
	Contact string `toml:"contact"`
}

type PackDefaults struct {
	DefaultMode string `toml:"default_mode"`
	OutputDir   string `toml:"output_dir"`
}

type AuditSettings struct {
	LogPath string `toml:"log_path"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, "aifx", "config.toml"), nil
}

// Load reads settings from path. A missing file is not an error: built-in
// defaults apply.
func Load(path string) (Settings, error) {
	settings := defaults()
	data, err := os.ReadFile(path) // #nosec G304 -- operator-owned config path.
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse config: %w", err)
	}
	if settings.Pack.DefaultMode == "" {
		settings.Pack.DefaultMode = "human-directed-ai"
	}
	return settings, nil
}

// LoadDefault reads settings from the per-user location.
func LoadDefault() (Settings, error) {
	path, err := DefaultPath()
	if err != nil {
		return defaults(), nil
	}
	return Load(path)
}

func defaults() Settings {
	return Settings{
		Pack: PackDefaults{DefaultMode: "human-directed-ai"},
	}
}

// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game     GameConfig     `toml:"game"`
	Click    CostConfig     `toml:"click"`
	Helpers  []HelperConfig `toml:"helpers"`
	Registry RegistryConfig `toml:"registry"`
}

// GameConfig maps game session settings.
type GameConfig struct {
	Refresh *string `toml:"refresh"`
	Save    *bool   `toml:"save"`
}

// CostConfig describes a cost function: kind is fixed, linear or quadratic.
type CostConfig struct {
	Cost      *string `toml:"cost"`
	Base      *int64  `toml:"base"`
	Increment *int64  `toml:"increment"`
}

// HelperConfig is one [[helpers]] entry.
type HelperConfig struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Power int64  `toml:"power"`
	CostConfig
}

// RegistryConfig maps lost & found register settings.
type RegistryConfig struct {
	Labels        *string `toml:"labels"`
	Uploads       *string `toml:"uploads"`
	AdminPassword *string `toml:"admin-password"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

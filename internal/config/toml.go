// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
	Goals   GoalsConfig   `toml:"goals"`
}

// SessionConfig maps session defaults. Unset keys stay nil.
type SessionConfig struct {
	Duration  *int    `toml:"duration"`
	Mode      *string `toml:"mode"`
	Intensity *int    `toml:"intensity"`
	Direction *int    `toml:"direction"`
	Frequency *int    `toml:"frequency"`
}

// GoalsConfig maps the player's goals.
type GoalsConfig struct {
	DailyHours *int `toml:"daily-hours"`
	ServeGoal  *int `toml:"serve-goal"`
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

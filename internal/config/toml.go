// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// FileConfig represents the TOML configuration file. Pointer fields left nil
// were not set in the file.
type FileConfig struct {
	Reader  ReaderConfig  `toml:"reader"`
	Cues    CuesConfig    `toml:"cues"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// ReaderConfig maps playback settings.
type ReaderConfig struct {
	WPM         *int  `toml:"wpm"`
	SmartPacing *bool `toml:"smart-pacing"`
	Muted       *bool `toml:"muted"`
}

// CuesConfig maps audio cue settings.
type CuesConfig struct {
	Enabled *bool    `toml:"enabled"`
	Dir     *string  `toml:"dir"`
	Volume  *float64 `toml:"volume"`
}

// HistoryConfig maps reading history settings.
type HistoryConfig struct {
	Enabled *bool `toml:"enabled"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// Env holds overrides read from the environment. Empty or nil means unset.
type Env struct {
	LogLevel string `env:"TUIREAD_LOG_LEVEL"`
	LogFile  string `env:"TUIREAD_LOG_FILE"`
	Mute     string `env:"TUIREAD_MUTE"`
}

// MuteOverride reports the TUIREAD_MUTE value and whether it was set.
func (e Env) MuteOverride() (muted, ok bool) {
	if e.Mute == "" {
		return false, false
	}
	v, err := strconv.ParseBool(e.Mute)
	if err != nil {
		return false, false
	}
	return v, true
}

// DefaultConfig is written by the config command when no file exists.
const DefaultConfig = `# tuiread configuration

[reader]
# words per minute (1-1000)
wpm = 100
# longer words and punctuation stay on screen longer
smart-pacing = false
# start with audio cues muted
muted = false

[cues]
enabled = true
# directory with <kind>.wav overrides (word_appear, start, stop, complete, keypress, hover)
# dir = "~/.config/tuiread/cues"
volume = 0.5

[history]
enabled = true

[log]
# debug, info, warn or error
level = "info"
# file = "~/.local/state/tuiread/tuiread.log"
`

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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// LoadEnv reads environment overrides.
func LoadEnv() (Env, error) {
	e, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if e.Mute != "" {
		if _, err := strconv.ParseBool(e.Mute); err != nil {
			return Env{}, fmt.Errorf("invalid TUIREAD_MUTE %q: %w", e.Mute, err)
		}
	}
	return e, nil
}

// EnsureConfigFile writes DefaultConfig to path unless a file already exists.
func EnsureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Port        string   `toml:"port"`
	Baud        int      `toml:"baud"`
	ReadTimeout string   `toml:"read_timeout"`
	Driver      string   `toml:"driver"`
	Channel     *int     `toml:"channel"`
	CodeLength  int      `toml:"code_length"`
	Slots       []string `toml:"slots"`
	WatchDevice *bool    `toml:"watch_device"`
	LogLevel    string   `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.lockstation/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".lockstation", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", fc.Port, &cfg.Port)
	s.setString("driver", fc.Driver, &cfg.Driver)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}

	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setInt("code-length", fc.CodeLength, &cfg.CodeLength)
	s.setIntPtr("channel", fc.Channel, &cfg.Channel)

	s.setStrings("slots", fc.Slots, &cfg.Slots)
	s.setBool("watch-device", fc.WatchDevice, &cfg.WatchDevice)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

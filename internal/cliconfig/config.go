package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Defaults for the lock station link.
const (
	DefaultPort        = "/dev/ttyUSB0"
	DefaultBaud        = 9600
	DefaultReadTimeout = time.Second
	DefaultDriver      = "bugst"
	DefaultChannel     = 0
	DefaultCodeLength  = 100
	DefaultLogLevel    = "info"
)

// DefaultSlots are the key slots exposed as send triggers.
var DefaultSlots = []string{"EXX", "EYX", "EZX"}

// Config holds CLI configuration for lockstation.
type Config struct {
	Port        string
	Baud        int
	ReadTimeout time.Duration
	Driver      string

	Channel    int
	CodeLength int
	Slots      []string

	WatchDevice bool
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Port:        DefaultPort,
		Baud:        DefaultBaud,
		ReadTimeout: DefaultReadTimeout,
		Driver:      DefaultDriver,
		Channel:     DefaultChannel,
		CodeLength:  DefaultCodeLength,
		Slots:       append([]string(nil), DefaultSlots...),
		WatchDevice: true,
		LogLevel:    DefaultLogLevel,
	}
}

// Validate checks the configuration for errors and normalises slot names.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.Channel < 0 {
		return fmt.Errorf("channel must not be negative")
	}
	if c.CodeLength <= 0 {
		return fmt.Errorf("code length must be positive")
	}

	slots := make([]string, 0, len(c.Slots))
	seen := make(map[string]bool, len(c.Slots))
	for _, s := range c.Slots {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		slots = append(slots, s)
	}
	if len(slots) == 0 {
		return fmt.Errorf("at least one slot is required")
	}
	c.Slots = slots

	return nil
}

// configSetter applies values only when the corresponding flag was not set
// explicitly on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int from a pointer, allowing zero.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setStrings sets a list if non-empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setIntFromString parses a string to int and sets the destination if it is
// at least min.
func (s *configSetter) setIntFromString(flag, value string, min int, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < min {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// setStringsFromString splits a comma-separated list.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = strings.Split(value, ",")
}

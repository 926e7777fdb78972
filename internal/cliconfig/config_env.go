package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "LOCKSTATION_"

// ApplyEnvConfig applies configuration from environment variables
// (LOCKSTATION_*). It respects flags that have been explicitly set.
// Returns an error if any variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", os.Getenv(EnvPrefix+"PORT"), &cfg.Port)
	s.setString("driver", os.Getenv(EnvPrefix+"DRIVER"), &cfg.Driver)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("read-timeout", os.Getenv(EnvPrefix+"READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("baud", os.Getenv(EnvPrefix+"BAUD"), 1, &cfg.Baud); err != nil {
		return err
	}
	if err := s.setIntFromString("code-length", os.Getenv(EnvPrefix+"CODE_LENGTH"), 1, &cfg.CodeLength); err != nil {
		return err
	}
	if err := s.setIntFromString("channel", os.Getenv(EnvPrefix+"CHANNEL"), 0, &cfg.Channel); err != nil {
		return err
	}

	s.setStringsFromString("slots", os.Getenv(EnvPrefix+"SLOTS"), &cfg.Slots)
	s.setBoolFromString("watch-device", os.Getenv(EnvPrefix+"WATCH_DEVICE"), &cfg.WatchDevice)

	return nil
}

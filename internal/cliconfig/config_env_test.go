package cliconfig

import (
	"reflect"
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"LOCKSTATION_PORT":         "/dev/ttyACM1",
				"LOCKSTATION_BAUD":         "57600",
				"LOCKSTATION_READ_TIMEOUT": "2s",
				"LOCKSTATION_DRIVER":       "tarm",
				"LOCKSTATION_CHANNEL":      "0",
				"LOCKSTATION_CODE_LENGTH":  "32",
				"LOCKSTATION_SLOTS":        "EXX,EQX",
				"LOCKSTATION_WATCH_DEVICE": "false",
				"LOCKSTATION_LOG_LEVEL":    "warn",
			},
			changed: map[string]bool{},
			initial: Config{Channel: 4, WatchDevice: true},
			expected: Config{
				Port:        "/dev/ttyACM1",
				Baud:        57600,
				ReadTimeout: 2 * time.Second,
				Driver:      "tarm",
				Channel:     0,
				CodeLength:  32,
				Slots:       []string{"EXX", "EQX"},
				WatchDevice: false,
				LogLevel:    "warn",
			},
		},
		{
			name:     "respects changed flags",
			envVars:  map[string]string{"LOCKSTATION_PORT": "/dev/ttyENV"},
			changed:  map[string]bool{"port": true},
			initial:  Config{Port: "/dev/ttyFLAG"},
			expected: Config{Port: "/dev/ttyFLAG"},
		},
		{
			name:     "handles bool '1' as true",
			envVars:  map[string]string{"LOCKSTATION_WATCH_DEVICE": "1"},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{WatchDevice: true},
		},
		{
			name:     "ignores non-positive baud",
			envVars:  map[string]string{"LOCKSTATION_BAUD": "0"},
			changed:  map[string]bool{},
			initial:  Config{Baud: 9600},
			expected: Config{Baud: 9600},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"LOCKSTATION_READ_TIMEOUT": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"LOCKSTATION_BAUD": "fast"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(cfg, tt.expected) {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	falseVal := false

	fileConf := FileConfig{
		Port:        "/dev/ttyFILE",
		Baud:        19200,
		Driver:      "tarm",
		WatchDevice: &falseVal,
	}

	t.Setenv("LOCKSTATION_PORT", "/dev/ttyENV")
	t.Setenv("LOCKSTATION_BAUD", "38400")

	changed := map[string]bool{"port": true}
	cfg := DefaultConfig()
	cfg.Port = "/dev/ttyCLI"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.Port != "/dev/ttyCLI" {
		t.Errorf("Port = %v, want /dev/ttyCLI (CLI should win)", cfg.Port)
	}
	if cfg.Baud != 38400 {
		t.Errorf("Baud = %v, want 38400 (env should override file)", cfg.Baud)
	}
	if cfg.Driver != "tarm" {
		t.Errorf("Driver = %v, want tarm (file should set)", cfg.Driver)
	}
	if cfg.WatchDevice {
		t.Error("WatchDevice = true, want false (file should set)")
	}
}

package station

import (
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/lockstation/internal/domain"
	"github.com/bft-labs/lockstation/internal/rollingcode"
)

// Defaults applied by Config.SetDefaults.
const (
	DefaultBaud            = 9600
	DefaultReadTimeout     = time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// DefaultSlots are the key slots of the lock station.
var DefaultSlots = []string{"EXX", "EYX", "EZX"}

// Config configures a Station.
type Config struct {
	// Port is the serial device, e.g. /dev/ttyUSB0 or COM3. Required.
	Port string

	// Baud defaults to 9600.
	Baud int

	// ReadTimeout bounds each read of the receive loop. Defaults to 1s.
	ReadTimeout time.Duration

	// Driver selects the serial driver ("bugst" or "tarm"). Ignored when a
	// PortOpener is supplied with WithPortOpener.
	Driver string

	// Channel is the radio channel in every AT+SEND command.
	Channel int

	// CodeLength is the length field of rolling-code commands. Defaults to 100.
	CodeLength int

	// Slots lists the accepted slot names. Defaults to DefaultSlots.
	Slots []string

	// LineBuffer is the capacity of the Lines channel.
	LineBuffer int

	// ShutdownTimeout bounds how long Stop waits for the receive loop.
	ShutdownTimeout time.Duration
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Baud == 0 {
		c.Baud = DefaultBaud
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.CodeLength == 0 {
		c.CodeLength = rollingcode.DefaultLength
	}
	if len(c.Slots) == 0 {
		c.Slots = append([]string(nil), DefaultSlots...)
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Validate reports configuration errors wrapped in domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port is required", domain.ErrInvalidConfig)
	}
	if c.Baud < 0 || c.ReadTimeout < 0 || c.CodeLength < 0 || c.Channel < 0 {
		return fmt.Errorf("%w: numeric settings must not be negative", domain.ErrInvalidConfig)
	}
	for _, s := range c.Slots {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: empty slot name", domain.ErrInvalidConfig)
		}
	}
	return nil
}

package station

import (
	"github.com/bft-labs/lockstation/internal/app"
	"github.com/bft-labs/lockstation/internal/domain"
	"github.com/bft-labs/lockstation/internal/ports"
	"github.com/bft-labs/lockstation/pkg/log"
)

type (
	// Response is a line received from the device or posted by a plugin.
	Response = domain.Response

	// Port is an open serial connection.
	Port = ports.Port

	// PortConfig describes how to open a serial port.
	PortConfig = ports.PortConfig

	// PortOpener opens serial ports.
	PortOpener = ports.PortOpener

	// PortOpenerFunc adapts a function to PortOpener.
	PortOpenerFunc = ports.PortOpenerFunc

	// Logger is the structured logger used by the station.
	Logger = log.Logger

	// LogField is a structured log field.
	LogField = log.Field
)

// Errors returned by Station methods; check them with errors.Is.
var (
	ErrEmptyKey       = domain.ErrEmptyKey
	ErrEmptyCommand   = domain.ErrEmptyCommand
	ErrUnknownSlot    = domain.ErrUnknownSlot
	ErrChannelClosed  = domain.ErrChannelClosed
	ErrAlreadyRunning = domain.ErrAlreadyRunning
	ErrNotRunning     = domain.ErrNotRunning
	ErrInvalidConfig  = domain.ErrInvalidConfig
)

// State is the lifecycle state of the station's serial channel.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	return app.State(s).String()
}

func convertState(s app.State) State {
	switch s {
	case app.StateOpening:
		return StateOpening
	case app.StateOpen:
		return StateOpen
	case app.StateClosing:
		return StateClosing
	case app.StateFailed:
		return StateFailed
	default:
		return StateClosed
	}
}

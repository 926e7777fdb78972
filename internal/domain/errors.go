package domain

import "errors"

// Validation errors. Nothing is written to the port when one is returned.
var (
	// ErrEmptyKey is returned when a slot message is requested without a key.
	ErrEmptyKey = errors.New("key cannot be null")

	// ErrEmptyCommand is returned when a manual command is empty.
	ErrEmptyCommand = errors.New("command cannot be null")

	// ErrUnknownSlot is returned when a slot is not in the configured set.
	ErrUnknownSlot = errors.New("unknown slot")
)

// Channel and lifecycle errors.
var (
	// ErrChannelClosed is returned when sending on a channel that is not open.
	ErrChannelClosed = errors.New("lockstation: serial channel closed")

	// ErrAlreadyOpen is returned when Open is called a second time.
	ErrAlreadyOpen = errors.New("lockstation: serial channel already opened")

	// ErrAlreadyRunning is returned when Start() is called on a running station.
	ErrAlreadyRunning = errors.New("lockstation: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped station.
	ErrNotRunning = errors.New("lockstation: not running")

	// ErrShutdownTimeout is returned when the receive loop does not exit in time.
	ErrShutdownTimeout = errors.New("lockstation: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("lockstation: invalid configuration")
)

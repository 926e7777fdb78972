package ports

import (
	"errors"
	"io"
	"time"
)

// Port is an open serial connection. Reads return after the configured read
// timeout with n == 0 when no bytes arrived; drivers may report that as a nil
// error or io.EOF. Read and Write may be called concurrently from different
// goroutines. Close must not be called while a Read or Write is in flight.
type Port interface {
	io.ReadWriteCloser
}

// PortConfig describes how to open a serial port.
type PortConfig struct {
	// Name is the device path or COM name, e.g. /dev/ttyUSB0 or COM3.
	Name string

	// Baud is the line speed in bits per second.
	Baud int

	// ReadTimeout bounds every Read call so the receive loop can observe
	// cancellation.
	ReadTimeout time.Duration
}

// PortOpener opens serial ports.
type PortOpener interface {
	Open(cfg PortConfig) (Port, error)
}

// PortOpenerFunc adapts a function to PortOpener.
type PortOpenerFunc func(cfg PortConfig) (Port, error)

// Open calls f(cfg).
func (f PortOpenerFunc) Open(cfg PortConfig) (Port, error) {
	return f(cfg)
}

// ErrPortClosed is returned by Port implementations once the underlying
// handle is gone. Reading again can never succeed.
var ErrPortClosed = errors.New("serial port closed")

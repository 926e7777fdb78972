package serialport

import (
	"errors"
	"fmt"
	"io"
	"os"

	bugst "go.bug.st/serial"

	"github.com/bft-labs/lockstation/internal/ports"
)

// driverPort normalises driver errors so callers can rely on
// ports.ErrPortClosed.
type driverPort struct {
	rwc io.ReadWriteCloser
}

func wrap(rwc io.ReadWriteCloser) ports.Port {
	return &driverPort{rwc: rwc}
}

func (p *driverPort) Read(b []byte) (int, error) {
	n, err := p.rwc.Read(b)
	return n, translate(err)
}

func (p *driverPort) Write(b []byte) (int, error) {
	n, err := p.rwc.Write(b)
	return n, translate(err)
}

func (p *driverPort) Close() error {
	return p.rwc.Close()
}

func translate(err error) error {
	if err == nil || !isPortClosed(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ports.ErrPortClosed, err)
}

// isPortClosed understands both drivers: the tarm driver wraps an *os.File.
func isPortClosed(err error) bool {
	if errors.Is(err, os.ErrClosed) {
		return true
	}
	var perr *bugst.PortError
	if errors.As(err, &perr) {
		return perr.Code() == bugst.PortClosed
	}
	return false
}

package serialport

import (
	"fmt"

	bugst "go.bug.st/serial"

	"github.com/bft-labs/lockstation/internal/ports"
)

// openBugst opens the port 8N1 with go.bug.st/serial. A read that times out
// returns (0, nil).
func openBugst(cfg ports.PortConfig) (ports.Port, error) {
	mode := &bugst.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	p, err := bugst.Open(cfg.Name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Name, err)
	}
	if cfg.ReadTimeout > 0 {
		if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", cfg.Name, err)
		}
	}
	return wrap(p), nil
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	names, err := bugst.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return names, nil
}

package serialport

import (
	"fmt"

	tarm "github.com/tarm/serial"

	"github.com/bft-labs/lockstation/internal/ports"
)

// openTarm opens the port with github.com/tarm/serial. Its read timeout is
// fixed at open time; on POSIX a timed-out read surfaces as io.EOF.
func openTarm(cfg ports.PortConfig) (ports.Port, error) {
	p, err := tarm.OpenPort(&tarm.Config{
		Name:        cfg.Name,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Name, err)
	}
	return wrap(p), nil
}

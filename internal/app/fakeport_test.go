package app

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bft-labs/lockstation/internal/ports"
)

// fakePort is an in-memory serial port. Incoming bytes are queued with
// feed; Read waits up to readTimeout and returns (0, nil) when idle, like
// go.bug.st/serial.
type fakePort struct {
	readTimeout time.Duration

	incoming chan []byte

	mu       sync.Mutex
	written  bytes.Buffer
	writeErr error
	readErrs []error

	inFlight    atomic.Int32
	closed      atomic.Bool
	closeFaults atomic.Int32
}

func newFakePort() *fakePort {
	return &fakePort{
		readTimeout: 5 * time.Millisecond,
		incoming:    make(chan []byte, 64),
	}
}

func (p *fakePort) feed(s string) {
	p.incoming <- []byte(s)
}

// failNextReads makes the next reads return errs in order.
func (p *fakePort) failNextReads(errs ...error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readErrs = append(p.readErrs, errs...)
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.inFlight.Add(1)
	defer p.inFlight.Add(-1)

	if p.closed.Load() {
		return 0, ports.ErrPortClosed
	}

	p.mu.Lock()
	if len(p.readErrs) > 0 {
		err := p.readErrs[0]
		p.readErrs = p.readErrs[1:]
		p.mu.Unlock()
		return 0, err
	}
	p.mu.Unlock()

	select {
	case data := <-p.incoming:
		return copy(b, data), nil
	case <-time.After(p.readTimeout):
		return 0, nil
	}
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.inFlight.Add(1)
	defer p.inFlight.Add(-1)

	if p.closed.Load() {
		return 0, ports.ErrPortClosed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	if p.inFlight.Load() > 0 {
		p.closeFaults.Add(1)
	}
	if p.closed.Swap(true) {
		return errors.New("already closed")
	}
	return nil
}

func (p *fakePort) Written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}

func (p *fakePort) setWriteErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writeErr = err
}

func openerFor(p *fakePort) ports.PortOpener {
	return ports.PortOpenerFunc(func(ports.PortConfig) (ports.Port, error) {
		return p, nil
	})
}

package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/lockstation/internal/domain"
	"github.com/bft-labs/lockstation/pkg/log"
)

// ShutdownTimeout is the default time Close waits for the receive loop.
const ShutdownTimeout = 5 * time.Second

// State is the lifecycle state of a serial channel.
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
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpening:
		return "Opening"
	case StateOpen:
		return "Open"
	case StateClosing:
		return "Closing"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Lifecycle is the Closed → Opening → Open → Closing → Closed state machine.
// A lifecycle runs once: after it returns to Closed, or after Failed, it
// cannot be opened again.
type Lifecycle struct {
	mu           sync.RWMutex
	state        State
	used         bool
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	logger       log.Logger
	eventEmitter EventEmitter
}

// EventEmitter is called when lifecycle state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// NewLifecycle creates a new lifecycle manager in StateClosed.
func NewLifecycle(logger log.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateClosed,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	switch oldState {
	case StateClosed:
		if newState != StateOpening {
			l.mu.Unlock()
			return domain.ErrNotRunning
		}
		if l.used {
			l.mu.Unlock()
			return domain.ErrAlreadyOpen
		}
		l.used = true
	case StateOpening:
		if newState != StateOpen && newState != StateFailed && newState != StateClosing {
			l.mu.Unlock()
			return domain.ErrAlreadyRunning
		}
	case StateOpen:
		if newState != StateClosing {
			l.mu.Unlock()
			return domain.ErrAlreadyRunning
		}
	case StateClosing:
		if newState != StateClosed {
			l.mu.Unlock()
			return domain.ErrAlreadyRunning
		}
	case StateFailed:
		l.mu.Unlock()
		return domain.ErrNotRunning
	}

	l.state = newState
	l.mu.Unlock()

	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	l.logger.Debug("state transition",
		log.String("from", oldState.String()),
		log.String("to", newState.String()),
		log.String("reason", reason),
	)

	return nil
}

// CanOpen returns true if the lifecycle has never been opened.
func (l *Lifecycle) CanOpen() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateClosed && !l.used
}

// CanClose returns true if Close() has work to do.
func (l *Lifecycle) CanClose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateOpen || l.state == StateOpening
}

// SetCancel stores the cancel function of the worker context.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel = cancel
}

// Cancel signals workers to stop.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// AddWorker increments the worker count.
func (l *Lifecycle) AddWorker() {
	l.wg.Add(1)
}

// WorkerDone decrements the worker count.
func (l *Lifecycle) WorkerDone() {
	l.wg.Done()
}

// WaitWithTimeout waits for all workers to finish with a timeout.
// Returns ErrShutdownTimeout if the timeout expires.
func (l *Lifecycle) WaitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		l.logger.Warn("receive loop did not stop in time",
			log.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}

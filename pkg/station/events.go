package station

import "github.com/bft-labs/lockstation/internal/app"

// StateChangeEvent reports a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// SendEvent reports an attempted write. Err is nil on success.
type SendEvent struct {
	Line string
	Err  error
}

// EventHandler receives station events. Methods are called synchronously
// from the goroutine that caused the event and should return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnSend(event SendEvent)
}

// BaseEventHandler implements EventHandler with no-ops for embedding.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent) {}
func (BaseEventHandler) OnSend(SendEvent)               {}

// eventEmitterWrapper adapts EventHandler to app.EventEmitter.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) onSend(line string, err error) {
	if e.handler == nil {
		return
	}
	e.handler.OnSend(SendEvent{Line: line, Err: err})
}

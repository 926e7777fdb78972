package station

import "github.com/bft-labs/lockstation/pkg/log"

// Option configures optional behavior of a Station.
type Option func(*options)

type options struct {
	logger       Logger
	opener       PortOpener
	eventHandler EventHandler
	plugins      []Plugin
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a structured logger. The default discards everything.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPortOpener replaces the serial driver, mainly for tests.
func WithPortOpener(opener PortOpener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

// WithEventHandler sets a handler for station events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin. Plugins are initialised in registration
// order and shut down in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

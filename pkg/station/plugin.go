package station

import (
	"context"
	"fmt"

	"github.com/bft-labs/lockstation/internal/ports"
)

// Plugin extends a Station with optional background behaviour.
type Plugin interface {
	// Name identifies the plugin in logs and as the Source of posted lines.
	Name() string

	// Initialize is called after the port opens. ctx is canceled when the
	// station stops.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called before the port closes, in reverse registration
	// order.
	Shutdown(ctx context.Context) error
}

// PluginConfig is handed to Plugin.Initialize.
type PluginConfig struct {
	Port      string
	SessionID string
	Logger    Logger
	Sink      LineSink
}

// LineSink posts status lines onto Station.Lines.
type LineSink = ports.LineSink

// BasePlugin implements Plugin with no-ops for embedding.
type BasePlugin struct{}

func (BasePlugin) Name() string                                   { return "base" }
func (BasePlugin) Initialize(context.Context, PluginConfig) error { return nil }
func (BasePlugin) Shutdown(context.Context) error                 { return nil }

// pluginSink tags posted lines with the plugin name.
type pluginSink struct {
	station *Station
	name    string
}

func (p pluginSink) Post(text string) {
	p.station.channel.Post(text, p.name)
}

func safeInitialize(ctx context.Context, p Plugin, cfg PluginConfig) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin %s panicked during initialization: %v", p.Name(), r)
		}
	}()
	return p.Initialize(ctx, cfg)
}

func safeShutdown(ctx context.Context, p Plugin) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin %s panicked during shutdown: %v", p.Name(), r)
		}
	}()
	return p.Shutdown(ctx)
}

package devicewatch

import "github.com/bft-labs/lockstation/pkg/station"

// WithDeviceWatch returns a station Option that reports device node
// removal and re-attachment on Station.Lines.
//
// Usage:
//
//	s, err := station.New(cfg,
//	    devicewatch.WithDeviceWatch(devicewatch.Config{
//	        DebounceDelay: 500 * time.Millisecond,
//	    }),
//	)
func WithDeviceWatch(cfg Config) station.Option {
	return station.WithPlugin(New(cfg))
}

// WithDefaultDeviceWatch enables device watching with the default debounce.
func WithDefaultDeviceWatch() station.Option {
	return WithDeviceWatch(DefaultConfig())
}

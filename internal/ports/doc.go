// Package ports defines the interfaces that connect the application layer to
// infrastructure adapters.
//
//   - [Port]: an open serial connection
//   - [PortOpener]: opens a [Port] from a [PortConfig]
//   - [LineSink]: receives status lines for display
//
// The application layer (internal/app) depends only on these interfaces.
// Serial drivers live in internal/adapters/serialport; tests substitute
// in-memory fakes.
package ports

// Package log provides the structured logging abstraction used across
// lockstation.
//
// Components depend only on the [Logger] interface. A zerolog-backed
// implementation writes human-readable console output to stderr, and a no-op
// logger is the default for embedded use and tests:
//
//	logger := log.NewZerologAdapterWithWriter(os.Stderr, zerolog.InfoLevel)
//	logger.Info("command sent", log.Line("AT+SEND=0,12,EXX-ABC12345"))
//
// Any other logging library can be plugged in by implementing the four level
// methods.
package log

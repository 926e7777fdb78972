package domain

import "time"

// Response is a single trimmed, non-empty line received from the lock
// station, or a status line posted by a plugin.
type Response struct {
	Text       string
	ReceivedAt time.Time
	// Source is "serial" for device lines; plugins use their own name.
	Source string
}

// SourceSerial marks lines read from the serial port.
const SourceSerial = "serial"

package log

import "time"

// Logger is the structured logger every lockstation component writes to.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is one key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// Keys shared by the serial link so log lines can be grepped across
// components.
const (
	KeyLine = "line"
	KeyPort = "port"
	KeyCode = "code"
)

// String, Int and Duration build fields under an arbitrary key.
func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Duration(key string, d time.Duration) Field { return Field{Key: key, Value: d} }

// Err attaches err under the "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Line is a command or response line as it appears on the wire, without
// the CRLF terminator.
func Line(text string) Field { return Field{Key: KeyLine, Value: text} }

// Port is the serial device name.
func Port(name string) Field { return Field{Key: KeyPort, Value: name} }

// Code is a rolling code.
func Code(code uint32) Field { return Field{Key: KeyCode, Value: code} }

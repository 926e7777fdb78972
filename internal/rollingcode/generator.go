// Package rollingcode issues the incrementing codes sent with AT+SEND
// commands.
package rollingcode

import (
	"fmt"
	"math"
	"sync"
)

// Defaults for the rolling-code command prefix and counter.
const (
	DefaultChannel = 0
	DefaultLength  = 100
	DefaultStep    = 1

	// MaxCode is the largest code; the next increment resets to 0.
	MaxCode = math.MaxUint32
)

// Prefix is the fixed channel/length part of a rolling-code command.
type Prefix struct {
	Channel int
	Length  int
}

// DefaultPrefix returns the prefix used by the lock station firmware.
func DefaultPrefix() Prefix {
	return Prefix{Channel: DefaultChannel, Length: DefaultLength}
}

// Generator owns the rolling counter. It is safe for concurrent use.
type Generator struct {
	mu     sync.Mutex
	last   uint64
	step   uint64
	prefix Prefix
}

// NewGenerator returns a generator starting at 0 with step 1.
func NewGenerator(prefix Prefix) *Generator {
	return NewGeneratorAt(prefix, 0)
}

// NewGeneratorAt returns a generator whose last issued code is start.
func NewGeneratorAt(prefix Prefix, start uint32) *Generator {
	return &Generator{
		last:   uint64(start),
		step:   DefaultStep,
		prefix: prefix,
	}
}

// Advance increments the counter and returns the new code. When the sum
// exceeds MaxCode the counter becomes 0; the overflow is discarded.
func (g *Generator) Advance() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last += g.step
	if g.last > MaxCode {
		g.last = 0
	}
	return uint32(g.last)
}

// Next advances the counter and formats the command for deviceID:
// AT+SEND=<channel>,<length>,<device-id>,<code>.
func (g *Generator) Next(deviceID string) string {
	return g.Format(deviceID, g.Advance())
}

// Format renders a rolling-code command without touching the counter.
func (g *Generator) Format(deviceID string, code uint32) string {
	return fmt.Sprintf("AT+SEND=%d,%d,%s,%d", g.prefix.Channel, g.prefix.Length, deviceID, code)
}

// Current returns the last issued code, 0 for a fresh generator.
func (g *Generator) Current() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return uint32(g.last)
}

// Package atcmd formats and frames the AT commands understood by the lock
// station.
package atcmd

import (
	"fmt"
	"strings"

	"github.com/bft-labs/lockstation/internal/domain"
)

// CRLF terminates every line on the wire.
const CRLF = "\r\n"

// slotOverhead is added to len(key) in the length field of a slot message.
const slotOverhead = 4

// SlotMessage formats AT+SEND=<channel>,<len(key)+4>,<slot>-<key>.
func SlotMessage(channel int, slot, key string) (string, error) {
	if key == "" {
		return "", domain.ErrEmptyKey
	}
	return fmt.Sprintf("AT+SEND=%d,%d,%s-%s", channel, len(key)+slotOverhead, slot, key), nil
}

// ValidateManual rejects empty manual commands.
func ValidateManual(cmd string) error {
	if cmd == "" {
		return domain.ErrEmptyCommand
	}
	return nil
}

// Frame returns line as bytes terminated by exactly one CRLF. A line that is
// already CRLF-terminated is not terminated again.
func Frame(line string) []byte {
	if strings.HasSuffix(line, CRLF) {
		return []byte(line)
	}
	return []byte(line + CRLF)
}

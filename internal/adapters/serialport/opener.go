// Package serialport adapts concrete serial drivers to ports.PortOpener.
package serialport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bft-labs/lockstation/internal/ports"
)

// Driver names accepted by NewOpener.
const (
	DriverBugst = "bugst"
	DriverTarm  = "tarm"
)

// DefaultDriver is used when no driver is configured.
const DefaultDriver = DriverBugst

var drivers = map[string]ports.PortOpener{
	DriverBugst: ports.PortOpenerFunc(openBugst),
	DriverTarm:  ports.PortOpenerFunc(openTarm),
}

// NewOpener returns the opener for the named driver.
func NewOpener(driver string) (ports.PortOpener, error) {
	if driver == "" {
		driver = DefaultDriver
	}
	o, ok := drivers[strings.ToLower(driver)]
	if !ok {
		return nil, fmt.Errorf("unknown serial driver %q (want one of %s)", driver, strings.Join(Drivers(), ", "))
	}
	return o, nil
}

// Drivers lists the supported driver names in sorted order.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

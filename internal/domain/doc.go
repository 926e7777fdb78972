// Package domain contains the core value types and errors shared by the
// lockstation components.
//
// It has no dependencies on infrastructure concerns (serial drivers, logging,
// configuration).
//
//   - [Response]: a decoded line received from the lock station
//   - sentinel errors, checked with errors.Is
package domain

// Package utils holds small generic helpers shared across the cmd/
// entrypoints, independent of address-resolution domain logic.
package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateUUID returns a v4-shaped UUID string.
func GenerateUUID() string {
	b := make([]byte, 16)
	rand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // RFC 4122 variant
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}

// GenerateShortID returns an 8-character hex ID, used to correlate one
// worker run's log lines without the length of a full UUID.
func GenerateShortID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}

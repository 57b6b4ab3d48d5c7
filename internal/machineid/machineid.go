// Package machineid derives a stable identifier for the current computer.
// The identifier binds a cached session to the machine it was created on.
package machineid

import (
	"os"
	"strings"
)

// Unknown is returned when no source yields an identifier.
const Unknown = "unknown-machine"

var (
	platformID = readPlatformID
	hostname   = os.Hostname
)

// ID returns the platform machine identifier, falling back to the host
// name and finally to Unknown. It never fails.
func ID() string {
	if id, err := platformID(); err == nil {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	if h, err := hostname(); err == nil {
		if h = strings.TrimSpace(h); h != "" {
			return h
		}
	}
	return Unknown
}

// Resolve returns override when set, otherwise ID().
func Resolve(override string) string {
	if o := strings.TrimSpace(override); o != "" {
		return o
	}
	return ID()
}

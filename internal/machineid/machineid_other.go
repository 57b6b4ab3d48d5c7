//go:build !linux && !darwin && !windows

package machineid

import "errors"

func readPlatformID() (string, error) {
	return "", errors.New("machine id not supported on this platform")
}

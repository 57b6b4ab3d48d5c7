package machineid

import (
	"errors"
	"os/exec"
	"strings"
)

var ioregOutput = func() ([]byte, error) {
	return exec.Command("ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output()
}

func readPlatformID() (string, error) {
	out, err := ioregOutput()
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "IOPlatformUUID") {
			continue
		}
		parts := strings.Split(line, "\"")
		if len(parts) >= 4 {
			return parts[3], nil
		}
	}
	return "", errors.New("no IOPlatformUUID found")
}

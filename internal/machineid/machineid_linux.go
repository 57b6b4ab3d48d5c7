package machineid

import (
	"errors"
	"os"
	"strings"
)

var linuxIDFiles = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
	"/sys/class/dmi/id/product_uuid",
}

var readFile = os.ReadFile

func readPlatformID() (string, error) {
	for _, path := range linuxIDFiles {
		b, err := readFile(path)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(b)); id != "" {
			return id, nil
		}
	}
	return "", errors.New("no machine id file found")
}

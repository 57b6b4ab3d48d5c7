package machineid

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPlatformID_Linux(t *testing.T) {
	origRead := readFile
	t.Cleanup(func() { readFile = origRead })

	files := map[string]string{
		"/var/lib/dbus/machine-id": "dbus-id\n",
	}
	readFile = func(path string) ([]byte, error) {
		if v, ok := files[path]; ok {
			return []byte(v), nil
		}
		return nil, os.ErrNotExist
	}

	id, err := readPlatformID()
	require.NoError(t, err)
	assert.Equal(t, "dbus-id", id)

	files["/etc/machine-id"] = "etc-id"
	id, err = readPlatformID()
	require.NoError(t, err)
	assert.Equal(t, "etc-id", id, "/etc/machine-id wins")

	files = map[string]string{"/etc/machine-id": "  "}
	_, err = readPlatformID()
	require.Error(t, err)
}

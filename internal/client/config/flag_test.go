package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-u", "s3://b/users.json", "-t", "3s", "-p", "reject", "-plaintext",
				"-ttl", "1h", "-n", "3", "-m", "M1", "-s", "file", "-d", "/tmp/x.db", "-l", "debug"},
			expected: &Config{
				DirectoryURL: "s3://b/users.json", FetchTimeout: 3 * time.Second, DuplicatePolicy: "reject",
				AllowPlaintextPasswords: true, SessionTTL: time.Hour, MaxLoginAttempts: 3, MachineID: "M1",
				TokenStore: "file", DBPath: "/tmp/x.db", LogLevel: "debug",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-x", "zzz", "-u", "http://h/users.json"},
			expected: &Config{DirectoryURL: "http://h/users.json"},
		},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
		{name: "incorrect attempts", args: []string{"cmd", "-n", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

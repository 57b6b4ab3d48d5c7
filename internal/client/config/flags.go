package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/assetgate/internal/flagx"
)

var knownFlags = []string{
	"-u", "-t", "-p", "-plaintext", "-ttl", "-n", "-m", "-s", "-d", "-l",
}

// parseFlags populates selected Config fields from command-line flags.
//
//	-u string     directory URL (http, https, s3 or file)
//	-t duration   directory fetch timeout
//	-p string     duplicate username policy: last-wins, first-wins, reject
//	-plaintext    accept plaintext passwords in the directory
//	-ttl duration session token lifetime
//	-n int        login attempts before giving up (0 = unlimited)
//	-m string     machine id override
//	-s string     token store: sqlite or file
//	-d string     path to the local SQLite database
//	-l string     log level
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DirectoryURL, "u", cfg.DirectoryURL, "directory url")
	fs.DurationVar(&cfg.FetchTimeout, "t", cfg.FetchTimeout, "directory fetch timeout")
	fs.StringVar(&cfg.DuplicatePolicy, "p", cfg.DuplicatePolicy, "duplicate username policy")
	fs.BoolVar(&cfg.AllowPlaintextPasswords, "plaintext", cfg.AllowPlaintextPasswords, "accept plaintext passwords")
	fs.DurationVar(&cfg.SessionTTL, "ttl", cfg.SessionTTL, "session token lifetime")
	fs.IntVar(&cfg.MaxLoginAttempts, "n", cfg.MaxLoginAttempts, "max login attempts (0 = unlimited)")
	fs.StringVar(&cfg.MachineID, "m", cfg.MachineID, "machine id override")
	fs.StringVar(&cfg.TokenStore, "s", cfg.TokenStore, "token store (sqlite|file)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

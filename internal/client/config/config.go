package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/assetgate/internal/directory"
)

// Token store backends.
const (
	TokenStoreSQLite = "sqlite"
	TokenStoreFile   = "file"
)

// Config holds runtime settings for the assetgate client.
//
// DBPath and TokenFile may be left empty; the app then places them in the
// user's config directory.
type Config struct {
	DirectoryURL     string
	FetchTimeout     time.Duration
	MaxDocumentBytes int64

	DuplicatePolicy         string
	AllowPlaintextPasswords bool

	SessionTTL       time.Duration
	MaxLoginAttempts int
	MachineID        string

	TokenStore string
	TokenFile  string
	DBPath     string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DirectoryURL = "http://127.0.0.1:8080/users.json"
	c.FetchTimeout = 10 * time.Second
	c.MaxDocumentBytes = 4 << 20
	c.DuplicatePolicy = string(directory.LastWins)
	c.AllowPlaintextPasswords = false
	c.SessionTTL = 12 * time.Hour
	c.MaxLoginAttempts = 0
	c.TokenStore = TokenStoreSQLite
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DirectoryURL) == "" {
		return fmt.Errorf("directory url is required")
	}
	if _, err := directory.ParseDuplicatePolicy(c.DuplicatePolicy); err != nil {
		return err
	}
	switch c.TokenStore {
	case TokenStoreSQLite, TokenStoreFile:
	default:
		return fmt.Errorf("unknown token store %q", c.TokenStore)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.MaxLoginAttempts < 0 {
		return fmt.Errorf("max login attempts must not be negative")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

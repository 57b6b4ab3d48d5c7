package config

import (
	"github.com/dmitrijs2005/assetgate/internal/flagx"
	"github.com/dmitrijs2005/assetgate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value, so a partial file only
// overrides what it names.
type JsonConfig struct {
	DirectoryURL     *string         `json:"directory_url"`
	FetchTimeout     *timex.Duration `json:"fetch_timeout"`
	MaxDocumentBytes *int64          `json:"max_document_bytes"`

	DuplicatePolicy         *string `json:"duplicate_policy"`
	AllowPlaintextPasswords *bool   `json:"allow_plaintext_passwords"`

	SessionTTL       *timex.Duration `json:"session_ttl"`
	MaxLoginAttempts *int            `json:"max_login_attempts"`
	MachineID        *string         `json:"machine_id"`

	TokenStore *string `json:"token_store"`
	TokenFile  *string `json:"token_file"`
	DBPath     *string `json:"db_path"`

	S3 *struct {
		Region    string `json:"region"`
		Endpoint  string `json:"endpoint"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
	} `json:"s3"`

	LogLevel  *string `json:"log_level"`
	LogFormat *string `json:"log_format"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. The file may contain comments. Panics on read or parse errors.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	var jc JsonConfig
	if err := flagx.DecodeJSONFile(path, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.DirectoryURL, jc.DirectoryURL)
	if jc.FetchTimeout != nil {
		cfg.FetchTimeout = jc.FetchTimeout.Duration
	}
	if jc.MaxDocumentBytes != nil {
		cfg.MaxDocumentBytes = *jc.MaxDocumentBytes
	}
	setString(&cfg.DuplicatePolicy, jc.DuplicatePolicy)
	if jc.AllowPlaintextPasswords != nil {
		cfg.AllowPlaintextPasswords = *jc.AllowPlaintextPasswords
	}
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.MaxLoginAttempts != nil {
		cfg.MaxLoginAttempts = *jc.MaxLoginAttempts
	}
	setString(&cfg.MachineID, jc.MachineID)
	setString(&cfg.TokenStore, jc.TokenStore)
	setString(&cfg.TokenFile, jc.TokenFile)
	setString(&cfg.DBPath, jc.DBPath)
	if jc.S3 != nil {
		cfg.S3Region = jc.S3.Region
		cfg.S3Endpoint = jc.S3.Endpoint
		cfg.S3AccessKey = jc.S3.AccessKey
		cfg.S3SecretKey = jc.S3.SecretKey
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

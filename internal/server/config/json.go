package config

import (
	"github.com/dmitrijs2005/assetgate/internal/flagx"
	"github.com/dmitrijs2005/assetgate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// Fields are pointers so that a partial file only overrides what it names.
type JsonConfig struct {
	HTTPAddr           *string         `json:"http_addr"`
	DatabaseDSN        *string         `json:"database_dsn"`
	SecretKey          *string         `json:"secret_key"`
	AdminTokenValidity *timex.Duration `json:"admin_token_validity"`
	BcryptCost         *int            `json:"bcrypt_cost"`

	S3 *struct {
		AccessKey    string `json:"access_key"`
		SecretKey    string `json:"secret_key"`
		Bucket       string `json:"bucket"`
		Region       string `json:"region"`
		BaseEndpoint string `json:"base_endpoint"`
		ObjectKey    string `json:"object_key"`
	} `json:"s3"`

	Kafka *struct {
		Brokers []string `json:"brokers"`
		Topic   string   `json:"topic"`
	} `json:"kafka"`

	LogLevel        *string         `json:"log_level"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag into cfg. Nothing happens when neither flag is given.
// Panics if the file cannot be read or contains invalid JSON.
func parseJson(cfg *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	var c JsonConfig
	if err := flagx.DecodeJSONFile(jsonConfigFile, &c); err != nil {
		panic(err)
	}

	c.apply(cfg)
}

func (c *JsonConfig) apply(cfg *Config) {
	setString(&cfg.HTTPAddr, c.HTTPAddr)
	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.SecretKey, c.SecretKey)
	if c.AdminTokenValidity != nil {
		cfg.AdminTokenValidity = c.AdminTokenValidity.Duration
	}
	if c.BcryptCost != nil {
		cfg.BcryptCost = *c.BcryptCost
	}
	if c.S3 != nil {
		cfg.S3AccessKey = c.S3.AccessKey
		cfg.S3SecretKey = c.S3.SecretKey
		cfg.S3Bucket = c.S3.Bucket
		cfg.S3Region = c.S3.Region
		cfg.S3BaseEndpoint = c.S3.BaseEndpoint
		if c.S3.ObjectKey != "" {
			cfg.S3ObjectKey = c.S3.ObjectKey
		}
	}
	if c.Kafka != nil {
		cfg.KafkaBrokers = c.Kafka.Brokers
		if c.Kafka.Topic != "" {
			cfg.KafkaTopic = c.Kafka.Topic
		}
	}
	setString(&cfg.LogLevel, c.LogLevel)
	if c.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

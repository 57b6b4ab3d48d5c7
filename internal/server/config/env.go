package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable the server reads.
const EnvPrefix = "ASSETGATE_"

var loadDotenv = func() error { return godotenv.Load(".env") }

// parseEnv overlays Config with ASSETGATE_* variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it. Malformed numbers and durations panic.
func parseEnv(cfg *Config) {
	if err := loadDotenv(); err != nil && !os.IsNotExist(err) {
		panic(err)
	}

	envString(&cfg.HTTPAddr, "HTTP_ADDR")
	envString(&cfg.DatabaseDSN, "DATABASE_DSN")
	envString(&cfg.SecretKey, "SECRET_KEY")
	envDuration(&cfg.AdminTokenValidity, "ADMIN_TOKEN_VALIDITY")
	envInt(&cfg.BcryptCost, "BCRYPT_COST")

	envString(&cfg.S3AccessKey, "S3_ACCESS_KEY")
	envString(&cfg.S3SecretKey, "S3_SECRET_KEY")
	envString(&cfg.S3Bucket, "S3_BUCKET")
	envString(&cfg.S3Region, "S3_REGION")
	envString(&cfg.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&cfg.S3ObjectKey, "S3_OBJECT_KEY")

	if v, ok := os.LookupEnv(EnvPrefix + "KAFKA_BROKERS"); ok {
		cfg.KafkaBrokers = splitList(v)
	}
	envString(&cfg.KafkaTopic, "KAFKA_TOPIC")

	envString(&cfg.LogLevel, "LOG_LEVEL")
	envDuration(&cfg.ShutdownTimeout, "SHUTDOWN_TIMEOUT")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

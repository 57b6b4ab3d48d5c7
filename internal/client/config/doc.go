// Package config loads runtime configuration for the assetgate client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config. Comments are allowed.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  // where the user list is published
//	  "directory_url": "s3://assets/gate/users.json",
//	  "fetch_timeout": "10s",
//	  "duplicate_policy": "last-wins",
//	  "allow_plaintext_passwords": false,
//	  "session_ttl": "12h",
//	  "max_login_attempts": 5,
//	  "token_store": "sqlite",
//	  "s3": {"region": "eu-central-1", "endpoint": "http://127.0.0.1:9000"},
//	  "log_level": "debug"
//	}
package config

// Package config loads runtime configuration for the portal.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string   storage driver: sqlite, postgres, redis or memory
//	-d string   storage DSN (SQLite path, PostgreSQL or redis:// URL)
//	-k string   session signing secret
//	-t int      session lifetime, minutes
//	-H string   password hasher: sha256 or argon2id
//	-l string   log level: debug, info, warn, error
//	-f string   log format: text or json
//	-r float    login attempts allowed per second
//	-b int      login attempt burst
//
// # JSON schema
//
// Durations use timex.Duration, so "24h" and integer nanoseconds both work:
//
//	{
//	  "storage_driver": "sqlite",
//	  "database_dsn": "portal.db",
//	  "session_secret": "change-me",
//	  "session_ttl": "24h",
//	  "hasher": "sha256",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "login_rate": 1,
//	  "login_burst": 5
//	}
package config

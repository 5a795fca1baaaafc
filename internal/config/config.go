package config

import (
	"fmt"
	"os"
	"time"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Hashers.
const (
	HasherSHA256   = "sha256"
	HasherArgon2ID = "argon2id"
)

// Config holds runtime settings for the portal.
type Config struct {
	StorageDriver string
	DatabaseDSN   string
	SessionSecret string
	SessionTTL    time.Duration
	Hasher        string
	LogLevel      string
	LogFormat     string
	LoginRate     float64
	LoginBurst    int
}

// LoadDefaults populates c with development defaults.
// NOTE: SessionSecret must be overridden outside a demo.
func (c *Config) LoadDefaults() {
	c.StorageDriver = DriverSQLite
	c.DatabaseDSN = "portal.db"
	c.SessionSecret = "portal-session-secret"
	c.SessionTTL = 24 * time.Hour
	c.Hasher = HasherSHA256
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LoginRate = 1
	c.LoginBurst = 5
}

// Validate reports settings the application cannot run with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.StorageDriver)
	}
	switch c.Hasher {
	case HasherSHA256, HasherArgon2ID:
	default:
		return fmt.Errorf("unsupported hasher %q", c.Hasher)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("session secret is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.LoginRate <= 0 || c.LoginBurst < 1 {
		return fmt.Errorf("login rate and burst must be positive")
	}
	return nil
}

// LoadConfig builds a Config from defaults, the optional JSON file and
// command-line flags, in that order, using os.Args.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/itportal/internal/flagx"
	"github.com/dmitrijs2005/itportal/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Absent
// fields leave the current value untouched.
type JsonConfig struct {
	StorageDriver *string         `json:"storage_driver"`
	DatabaseDSN   *string         `json:"database_dsn"`
	SessionSecret *string         `json:"session_secret"`
	SessionTTL    *timex.Duration `json:"session_ttl"`
	Hasher        *string         `json:"hasher"`
	LogLevel      *string         `json:"log_level"`
	LogFormat     *string         `json:"log_format"`
	LoginRate     *float64        `json:"login_rate"`
	LoginBurst    *int            `json:"login_burst"`
}

// parseJson overlays values from the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SessionSecret, c.SessionSecret)
	setString(&config.Hasher, c.Hasher)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.LoginRate != nil {
		config.LoginRate = *c.LoginRate
	}
	if c.LoginBurst != nil {
		config.LoginBurst = *c.LoginBurst
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

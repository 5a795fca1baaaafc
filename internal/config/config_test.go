package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, DriverSQLite, c.StorageDriver)
	assert.Equal(t, "portal.db", c.DatabaseDSN)
	assert.Equal(t, "portal-session-secret", c.SessionSecret)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, HasherSHA256, c.Hasher)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, 1.0, c.LoginRate)
	assert.Equal(t, 5, c.LoginBurst)
	require.NoError(t, c.Validate())
}

func TestLoad_NoArgsGivesDefaults(t *testing.T) {
	c, err := load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, c)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"driver", func(c *Config) { c.StorageDriver = "mongo" }},
		{"hasher", func(c *Config) { c.Hasher = "md5" }},
		{"secret", func(c *Config) { c.SessionSecret = "" }},
		{"ttl", func(c *Config) { c.SessionTTL = 0 }},
		{"rate", func(c *Config) { c.LoginRate = 0 }},
		{"burst", func(c *Config) { c.LoginBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_RejectsInvalidFlagValue(t *testing.T) {
	_, err := load([]string{"-s", "mongo"})
	require.Error(t, err)
}

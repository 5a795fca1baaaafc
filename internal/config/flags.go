package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/itportal/internal/flagx"
)

// parseFlags overlays values from command-line flags. Only the flags
// listed in doc.go are looked at; everything else in args is ignored.
// The session lifetime flag is given in minutes and only replaces the
// current value when present.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-s", "-d", "-k", "-t", "-H", "-l", "-f", "-r", "-b"})

	fs := flag.NewFlagSet("portal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.StorageDriver, "s", config.StorageDriver, "storage driver (sqlite, postgres, redis, memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "storage DSN")
	fs.StringVar(&config.SessionSecret, "k", config.SessionSecret, "session signing secret")
	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session lifetime (in minutes)")
	fs.StringVar(&config.Hasher, "H", config.Hasher, "password hasher (sha256, argon2id)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (text, json)")
	fs.Float64Var(&config.LoginRate, "r", config.LoginRate, "login attempts per second")
	fs.IntVar(&config.LoginBurst, "b", config.LoginBurst, "login attempt burst")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
		}
	})
	return nil
}

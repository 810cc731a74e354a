package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags overlays command-line flags.
//
//	-a string   listen port or address
//	-f string   frontend origin(s), comma separated
//	-d string   PostgreSQL DSN (empty selects the in-memory store)
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r string   Redis URL for the revocation list
//	-m string   gin mode (debug, test, release)
//	-l string   log level
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-f", "-d", "-s", "-t", "-r", "-m", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Port, "a", config.Port, "port or address to listen on")
	fs.StringVar(&config.FrontendURL, "f", config.FrontendURL, "allowed frontend origin(s)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	ttl := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL")
	fs.StringVar(&config.GinMode, "m", config.GinMode, "gin mode")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	tSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			tSet = true
		}
	})
	if tSet {
		config.AccessTokenTTL = time.Duration(*ttl) * time.Minute
	}

	return nil
}

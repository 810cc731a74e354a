// Package config handles configuration for the server component: defaults,
// environment (optionally loaded from a dotenv file), a JSON overlay and
// finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPort        = "3000"
	DefaultFrontendURL = "http://localhost:5173"
	DefaultSecretKey   = "secretKey"
	DefaultTokenTTL    = time.Hour
	DefaultGinMode     = "debug"
	DefaultLogLevel    = "info"

	ReleaseMode = "release"
)

// Config holds runtime settings for the gophauth server.
//
// An empty DatabaseDSN selects the in-memory credential store; an empty
// RedisURL disables the server-side revocation list.
type Config struct {
	Port           string
	FrontendURL    string
	DatabaseDSN    string
	SecretKey      string
	AccessTokenTTL time.Duration
	RedisURL       string
	GinMode        string
	LogLevel       string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the default secret key is rejected in release mode.
func (c *Config) LoadDefaults() {
	c.Port = DefaultPort
	c.FrontendURL = DefaultFrontendURL
	c.DatabaseDSN = ""
	c.SecretKey = DefaultSecretKey
	c.AccessTokenTTL = DefaultTokenTTL
	c.RedisURL = ""
	c.GinMode = DefaultGinMode
	c.LogLevel = DefaultLogLevel
}

// LoadConfig builds a Config from defaults, then the environment, then an
// optional JSON file (-c/-config) and finally the command-line flags in args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
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

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// AllowedOrigins splits FrontendURL on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL))
	}
	if len(c.AllowedOrigins()) == 0 {
		errs = append(errs, errors.New("FRONTEND_URL is required"))
	}

	switch c.GinMode {
	case "debug", "test", ReleaseMode:
	default:
		errs = append(errs, fmt.Errorf("unknown GIN_MODE %q", c.GinMode))
	}

	if c.GinMode == ReleaseMode && (c.SecretKey == "" || c.SecretKey == DefaultSecretKey) {
		errs = append(errs, errors.New("SECRET_KEY must be set in release mode"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

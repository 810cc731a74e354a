package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	DefaultBackendURL     = "http://localhost:3000"
	DefaultTokenDB        = "session.db"
	DefaultRequestTimeout = 10 * time.Second
	DefaultLogLevel       = "warn"
)

// Config holds runtime settings for the gophauth CLI.
type Config struct {
	BackendURL     string
	TokenDB        string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = DefaultBackendURL
	c.TokenDB = DefaultTokenDB
	c.RequestTimeout = DefaultRequestTimeout
	c.LogLevel = DefaultLogLevel
}

// LoadConfig applies defaults, then the environment, JSON and flags found
// in args. Later sources take precedence over earlier ones.
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

func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid config: BACKEND_URL must be an http(s) URL, got %q", c.BackendURL)
	}
	if c.TokenDB == "" {
		return errors.New("invalid config: TOKEN_DB is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid config: REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

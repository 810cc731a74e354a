package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration so both "1h" and integer nanoseconds are accepted.
type JsonConfig struct {
	Port           string         `json:"port"`
	FrontendURL    string         `json:"frontend_url"`
	DatabaseDSN    string         `json:"database_dsn"`
	SecretKey      string         `json:"secret_key"`
	AccessTokenTTL timex.Duration `json:"access_token_ttl"`
	RedisURL       string         `json:"redis_url"`
	GinMode        string         `json:"gin_mode"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config. Fields absent from the
// file keep their current values.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setIfNotEmpty(&config.Port, c.Port)
	setIfNotEmpty(&config.FrontendURL, c.FrontendURL)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.SecretKey, c.SecretKey)
	setIfNotEmpty(&config.RedisURL, c.RedisURL)
	setIfNotEmpty(&config.GinMode, c.GinMode)
	setIfNotEmpty(&config.LogLevel, c.LogLevel)
	if c.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}

	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/joho/godotenv"
)

func parseEnv(cfg *Config, args []string) error {
	if path := flagx.EnvFile(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	} else {
		_ = godotenv.Load(".env")
	}

	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("TOKEN_DB"); v != "" {
		cfg.TokenDB = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		// "5s" or a bare number of seconds
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		} else if s, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeout = time.Duration(s) * time.Second
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads the dotenv file named by -env (required to exist) or, when
// no -env flag is given, ./.env if present. Existing process variables are
// never overwritten. Variables that are set override the current values.
func parseEnv(cfg *Config, args []string) error {
	if path := flagx.EnvFile(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	} else {
		_ = godotenv.Load(defaultEnvFile)
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.AccessTokenTTL = getEnvAsDuration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	return nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts a Go duration ("30m") or a bare number of minutes.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if m, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(m) * time.Minute
	}
	return defaultValue
}

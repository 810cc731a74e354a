package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"port":             "8081",
		"frontend_url":     "http://app.test",
		"database_dsn":     "postgres://u:p@db:5432/auth",
		"secret_key":       "json-secret",
		"access_token_ttl": "2h",
		"redis_url":        "redis://cache:6379/1",
		"gin_mode":         "release",
		"log_level":        "debug",
	})

	cfg := &Config{}
	require.NoError(t, parseJson(cfg, []string{"-config", path}))

	assert.Equal(t, &Config{
		Port:           "8081",
		FrontendURL:    "http://app.test",
		DatabaseDSN:    "postgres://u:p@db:5432/auth",
		SecretKey:      "json-secret",
		AccessTokenTTL: 2 * time.Hour,
		RedisURL:       "redis://cache:6379/1",
		GinMode:        "release",
		LogLevel:       "debug",
	}, cfg)
}

func Test_parseJson_KeepsAbsentFields(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{"port": "9999"})

	cfg := defaults()
	require.NoError(t, parseJson(cfg, []string{"-c", path}))

	want := defaults()
	want.Port = "9999"
	assert.Equal(t, want, cfg)
}

func Test_parseJson_NoFlag(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseJson(cfg, []string{"-a", "1"}))
	assert.Equal(t, defaults(), cfg)
}

func Test_parseJson_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	err := parseJson(&Config{}, []string{"-c", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

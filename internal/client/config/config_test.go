package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"BACKEND_URL", "TOKEN_DB", "REQUEST_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func defaults() *Config {
	return &Config{
		BackendURL:     "http://localhost:3000",
		TokenDB:        "session.db",
		RequestTimeout: 10 * time.Second,
		LogLevel:       "warn",
	}
}

func writeJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	if diff := cmp.Diff(defaults(), &c); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	if diff := cmp.Diff(defaults(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Layers(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "http://env.test:3000")
	t.Setenv("REQUEST_TIMEOUT", "7")
	t.Setenv("TOKEN_DB", "env.db")

	path := writeJSON(t, map[string]any{
		"token_db":        "json.db",
		"request_timeout": "20s",
		"log_level":       "debug",
	})

	cfg, err := LoadConfig([]string{"-config", path, "-t", "3"})
	require.NoError(t, err)

	want := &Config{
		BackendURL:     "http://env.test:3000",
		TokenDB:        "json.db",
		RequestTimeout: 3 * time.Second,
		LogLevel:       "debug",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_EnvDurationString(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "1500ms")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "client.env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=error\n"), 0o600))

	// LOG_LEVEL is already set (to empty) by clearEnv, so godotenv leaves it alone.
	cfg, err := LoadConfig([]string{"-env", path})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)

	_, err = LoadConfig([]string{"-env", filepath.Join(t.TempDir(), "missing.env")})
	require.Error(t, err)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig([]string{"-a", "localhost:3000"})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-t", "0"})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-db", ""})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "none.json")})
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadConfig([]string{"-c", bad})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-t", "soon"})
	require.Error(t, err)
}

func Test_parseFlags(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseFlags(cfg, []string{"-a", "https://auth.example.com", "-db", "/tmp/s.db", "-l", "info", "-x", "y"}))

	want := defaults()
	want.BackendURL = "https://auth.example.com"
	want.TokenDB = "/tmp/s.db"
	want.LogLevel = "info"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("parseFlags mismatch (-want +got):\n%s", diff)
	}
}

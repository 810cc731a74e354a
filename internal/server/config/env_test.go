package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv_Variables(t *testing.T) {
	t.Setenv("PORT", "4100")
	t.Setenv("FRONTEND_URL", "http://fe.test")
	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "45")
	t.Setenv("REDIS_URL", "redis://env:6379/0")
	t.Setenv("GIN_MODE", "test")
	t.Setenv("LOG_LEVEL", "error")

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, nil))

	assert.Equal(t, &Config{
		Port:           "4100",
		FrontendURL:    "http://fe.test",
		DatabaseDSN:    "postgres://env",
		SecretKey:      "env-secret",
		AccessTokenTTL: 45 * time.Minute,
		RedisURL:       "redis://env:6379/0",
		GinMode:        "test",
		LogLevel:       "error",
	}, cfg)
}

func Test_parseEnv_File(t *testing.T) {
	const key = "GOPHAUTH_TEST_UNUSED"
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("REDIS_URL=redis://dotenv:6379/2\n"+key+"=1\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("REDIS_URL")
		os.Unsetenv(key)
	})

	cfg := defaults()
	require.NoError(t, parseEnv(cfg, []string{"-env", path}))
	assert.Equal(t, "redis://dotenv:6379/2", cfg.RedisURL)
}

func Test_parseEnv_MissingFile(t *testing.T) {
	err := parseEnv(defaults(), []string{"-env", "/no/such/.env"})
	require.Error(t, err)
}

func Test_getEnvAsDuration(t *testing.T) {
	const key = "GOPHAUTH_TEST_TTL"

	t.Setenv(key, "")
	assert.Equal(t, time.Minute, getEnvAsDuration(key, time.Minute))

	t.Setenv(key, "90s")
	assert.Equal(t, 90*time.Second, getEnvAsDuration(key, time.Minute))

	t.Setenv(key, "3")
	assert.Equal(t, 3*time.Minute, getEnvAsDuration(key, time.Minute))

	t.Setenv(key, "soon")
	assert.Equal(t, time.Minute, getEnvAsDuration(key, time.Minute))
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaultsWithEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HOURGLASS_DATABASE_DRIVER", "memory")
	t.Setenv("HOURGLASS_SECURITY_JWTSECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 168*time.Hour, cfg.Security.JWTTTL)
	assert.Equal(t, 1000, cfg.App.ListLimit)
	assert.Equal(t, 50, cfg.App.NotificationDefaultLimit)
	assert.Equal(t, "notifications:outbox", cfg.Outbox.Stream)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadReadsDotEnv(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile(".env", []byte("HOURGLASS_DATABASE_DRIVER=memory\nHOURGLASS_SECURITY_JWTSECRET=from-dotenv\nHOURGLASS_APP_TIMEZONE=Europe/Paris\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("HOURGLASS_DATABASE_DRIVER")
		os.Unsetenv("HOURGLASS_SECURITY_JWTSECRET")
		os.Unsetenv("HOURGLASS_APP_TIMEZONE")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Security.JWTSecret)
	assert.Equal(t, "Europe/Paris", cfg.Location().String())
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HOURGLASS_DATABASE_DRIVER", "memory")
	t.Setenv("HOURGLASS_SECURITY_JWTSECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HOURGLASS_DATABASE_DRIVER", "postgres")
	t.Setenv("HOURGLASS_DATABASE_DSN", "")
	t.Setenv("HOURGLASS_SECURITY_JWTSECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMemoryDriverWithRedis(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HOURGLASS_DATABASE_DRIVER", "memory")
	t.Setenv("HOURGLASS_REDIS_ENABLED", "true")
	t.Setenv("HOURGLASS_SECURITY_JWTSECRET", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.enabled")
}

func TestLoadAllowsPostgresWithRedis(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HOURGLASS_DATABASE_DRIVER", "postgres")
	t.Setenv("HOURGLASS_DATABASE_DSN", "postgres://u:p@localhost:5432/hourglass")
	t.Setenv("HOURGLASS_REDIS_ENABLED", "true")
	t.Setenv("HOURGLASS_SECURITY_JWTSECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled)
}

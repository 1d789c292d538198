package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("PORT", "")
		t.Setenv("DB_HOST", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "gigbridge", cfg.DBName)
		assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("PORT", "9090")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("REDIS_ADDR", "redis.internal:6379")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "db.internal", cfg.DBHost)
		assert.Equal(t, "redis.internal:6379", cfg.RedisAddr)
	})

	t.Run("missing jwt secret fails", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("non-numeric port fails", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("PORT", "eighty")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PORT")
	})
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{
		DBUser:     "app",
		DBPassword: "pw",
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBName:     "gigbridge",
	}
	assert.Equal(t, "postgres://app:pw@db.internal:5433/gigbridge", cfg.DatabaseURL())
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"FREIGHT_APP_NAME":          os.Getenv("FREIGHT_APP_NAME"),
		"FREIGHT_APP_ENV":           os.Getenv("FREIGHT_APP_ENV"),
		"FREIGHT_APP_PORT":          os.Getenv("FREIGHT_APP_PORT"),
		"FREIGHT_DATABASE_HOST":     os.Getenv("FREIGHT_DATABASE_HOST"),
		"FREIGHT_DATABASE_PORT":     os.Getenv("FREIGHT_DATABASE_PORT"),
		"FREIGHT_DATABASE_USER":     os.Getenv("FREIGHT_DATABASE_USER"),
		"FREIGHT_DATABASE_PASSWORD": os.Getenv("FREIGHT_DATABASE_PASSWORD"),
		"FREIGHT_DATABASE_DBNAME":   os.Getenv("FREIGHT_DATABASE_DBNAME"),
		"FREIGHT_DATABASE_SSLMODE":  os.Getenv("FREIGHT_DATABASE_SSLMODE"),
		"FREIGHT_REDIS_HOST":        os.Getenv("FREIGHT_REDIS_HOST"),
		"FREIGHT_LOG_LEVEL":         os.Getenv("FREIGHT_LOG_LEVEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "freightbooks-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "freightbooks", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 2*time.Minute, cfg.SubmitGuard.TTL)
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("FREIGHT_APP_PORT", "9090")
		os.Setenv("FREIGHT_DATABASE_HOST", "db.internal")
		os.Setenv("FREIGHT_LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("production requires a database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("FREIGHT_APP_ENV", "production")
		os.Setenv("FREIGHT_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		clearEnv()
		os.Setenv("FREIGHT_APP_ENV", "production")
		os.Setenv("FREIGHT_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "freightbooks",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// password is URL-escaped, never raw
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}

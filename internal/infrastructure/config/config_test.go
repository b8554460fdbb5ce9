package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"BATTERY_APP_NAME":                os.Getenv("BATTERY_APP_NAME"),
		"BATTERY_APP_ENV":                 os.Getenv("BATTERY_APP_ENV"),
		"BATTERY_APP_PORT":                os.Getenv("BATTERY_APP_PORT"),
		"BATTERY_DATABASE_HOST":           os.Getenv("BATTERY_DATABASE_HOST"),
		"BATTERY_DATABASE_PORT":           os.Getenv("BATTERY_DATABASE_PORT"),
		"BATTERY_DATABASE_USER":           os.Getenv("BATTERY_DATABASE_USER"),
		"BATTERY_DATABASE_PASSWORD":       os.Getenv("BATTERY_DATABASE_PASSWORD"),
		"BATTERY_DATABASE_DBNAME":         os.Getenv("BATTERY_DATABASE_DBNAME"),
		"BATTERY_DATABASE_SSLMODE":        os.Getenv("BATTERY_DATABASE_SSLMODE"),
		"BATTERY_DATABASE_MAX_OPEN_CONNS": os.Getenv("BATTERY_DATABASE_MAX_OPEN_CONNS"),
		"BATTERY_DATABASE_MAX_IDLE_CONNS": os.Getenv("BATTERY_DATABASE_MAX_IDLE_CONNS"),
		"BATTERY_JWT_SECRET":              os.Getenv("BATTERY_JWT_SECRET"),
		"BATTERY_CACHE_MAX_ENTRIES":       os.Getenv("BATTERY_CACHE_MAX_ENTRIES"),
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

		assert.Equal(t, "battery-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "battery", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 1000, cfg.Cache.MaxEntries)
		assert.Equal(t, "storefront.events", cfg.Analytics.EventsTopic)
		assert.Equal(t, "products", cfg.Search.Index)
	})

	t.Run("loads values from environment variables with BATTERY prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("BATTERY_APP_NAME", "test-app")
		os.Setenv("BATTERY_APP_PORT", "9000")
		os.Setenv("BATTERY_DATABASE_HOST", "testdb.local")
		os.Setenv("BATTERY_DATABASE_PORT", "5433")
		os.Setenv("BATTERY_DATABASE_USER", "testuser")
		os.Setenv("BATTERY_DATABASE_PASSWORD", "testpass")
		os.Setenv("BATTERY_DATABASE_SSLMODE", "require")
		os.Setenv("BATTERY_CACHE_MAX_ENTRIES", "250")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 250, cfg.Cache.MaxEntries)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("BATTERY_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("BATTERY_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("BATTERY_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"BATTERY_APP_ENV":               os.Getenv("BATTERY_APP_ENV"),
		"BATTERY_JWT_SECRET":            os.Getenv("BATTERY_JWT_SECRET"),
		"BATTERY_DATABASE_PASSWORD":     os.Getenv("BATTERY_DATABASE_PASSWORD"),
		"BATTERY_DATABASE_SSLMODE":      os.Getenv("BATTERY_DATABASE_SSLMODE"),
		"BATTERY_STRIPE_SECRET_KEY":     os.Getenv("BATTERY_STRIPE_SECRET_KEY"),
		"BATTERY_STRIPE_WEBHOOK_SECRET": os.Getenv("BATTERY_STRIPE_WEBHOOK_SECRET"),
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

	setValidProductionBase := func() {
		os.Setenv("BATTERY_APP_ENV", "production")
		os.Setenv("BATTERY_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("BATTERY_DATABASE_PASSWORD", "secure-password")
		os.Setenv("BATTERY_DATABASE_SSLMODE", "require")
		os.Setenv("BATTERY_STRIPE_SECRET_KEY", "sk_live_testonly")
		os.Setenv("BATTERY_STRIPE_WEBHOOK_SECRET", "whsec_testonly")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("BATTERY_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("BATTERY_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("BATTERY_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("BATTERY_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires stripe keys in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("BATTERY_STRIPE_SECRET_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stripe.secret_key is required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})
}

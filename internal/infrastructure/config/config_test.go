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
		"REPAIR_APP_NAME":                    os.Getenv("REPAIR_APP_NAME"),
		"REPAIR_APP_ENV":                     os.Getenv("REPAIR_APP_ENV"),
		"REPAIR_APP_PORT":                    os.Getenv("REPAIR_APP_PORT"),
		"REPAIR_DATABASE_HOST":               os.Getenv("REPAIR_DATABASE_HOST"),
		"REPAIR_DATABASE_PORT":               os.Getenv("REPAIR_DATABASE_PORT"),
		"REPAIR_DATABASE_USER":               os.Getenv("REPAIR_DATABASE_USER"),
		"REPAIR_DATABASE_PASSWORD":           os.Getenv("REPAIR_DATABASE_PASSWORD"),
		"REPAIR_DATABASE_DBNAME":             os.Getenv("REPAIR_DATABASE_DBNAME"),
		"REPAIR_DATABASE_SSLMODE":            os.Getenv("REPAIR_DATABASE_SSLMODE"),
		"REPAIR_DATABASE_MAX_OPEN_CONNS":     os.Getenv("REPAIR_DATABASE_MAX_OPEN_CONNS"),
		"REPAIR_DATABASE_MAX_IDLE_CONNS":     os.Getenv("REPAIR_DATABASE_MAX_IDLE_CONNS"),
		"REPAIR_REPAIR_REFERENCE_PREFIX":     os.Getenv("REPAIR_REPAIR_REFERENCE_PREFIX"),
		"REPAIR_REPAIR_AUTO_RECREDIT_COUPON": os.Getenv("REPAIR_REPAIR_AUTO_RECREDIT_COUPON"),
		"REPAIR_REPAIR_FIX_BATCH_SIZE":       os.Getenv("REPAIR_REPAIR_FIX_BATCH_SIZE"),
		"REPAIR_REPAIR_CHOICE_CACHE_TTL":     os.Getenv("REPAIR_REPAIR_CHOICE_CACHE_TTL"),
		"REPAIR_HTTP_CORS_ALLOW_ORIGINS":     os.Getenv("REPAIR_HTTP_CORS_ALLOW_ORIGINS"),
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

		assert.Equal(t, "repair-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "repair", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	})

	t.Run("defaults the repair workflow settings", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "R", cfg.Repair.ReferencePrefix)
		assert.Equal(t, "C", cfg.Repair.CouponReferencePrefix)
		assert.True(t, cfg.Repair.AutoRecreditCoupon)
		assert.Equal(t, 100, cfg.Repair.FixBatchSize)
		assert.Equal(t, 5*time.Minute, cfg.Repair.ChoiceCacheTTL)
		assert.Empty(t, cfg.Repair.ClosedStatuses, "empty means the built-in closed set")
	})

	t.Run("loads values from environment variables with REPAIR prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("REPAIR_APP_NAME", "test-app")
		os.Setenv("REPAIR_APP_ENV", "testing")
		os.Setenv("REPAIR_APP_PORT", "9000")
		os.Setenv("REPAIR_DATABASE_HOST", "testdb.local")
		os.Setenv("REPAIR_DATABASE_PORT", "5433")
		os.Setenv("REPAIR_DATABASE_USER", "testuser")
		os.Setenv("REPAIR_DATABASE_PASSWORD", "testpass")
		os.Setenv("REPAIR_DATABASE_DBNAME", "testdb")
		os.Setenv("REPAIR_DATABASE_SSLMODE", "require")
		os.Setenv("REPAIR_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("REPAIR_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("overrides the repair workflow settings from env", func(t *testing.T) {
		clearEnv()
		os.Setenv("REPAIR_REPAIR_REFERENCE_PREFIX", "RMA")
		os.Setenv("REPAIR_REPAIR_AUTO_RECREDIT_COUPON", "false")
		os.Setenv("REPAIR_REPAIR_FIX_BATCH_SIZE", "250")
		os.Setenv("REPAIR_REPAIR_CHOICE_CACHE_TTL", "30s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "RMA", cfg.Repair.ReferencePrefix)
		assert.False(t, cfg.Repair.AutoRecreditCoupon)
		assert.Equal(t, 250, cfg.Repair.FixBatchSize)
		assert.Equal(t, 30*time.Second, cfg.Repair.ChoiceCacheTTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("REPAIR_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("REPAIR_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("REPAIR_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("REPAIR_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("validates FixBatchSize must be positive", func(t *testing.T) {
		clearEnv()
		os.Setenv("REPAIR_REPAIR_FIX_BATCH_SIZE", "-5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fix_batch_size must be positive")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"REPAIR_APP_ENV":                 os.Getenv("REPAIR_APP_ENV"),
		"REPAIR_DATABASE_PASSWORD":       os.Getenv("REPAIR_DATABASE_PASSWORD"),
		"REPAIR_DATABASE_SSLMODE":        os.Getenv("REPAIR_DATABASE_SSLMODE"),
		"REPAIR_HTTP_CORS_ALLOW_ORIGINS": os.Getenv("REPAIR_HTTP_CORS_ALLOW_ORIGINS"),
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
		os.Setenv("REPAIR_APP_ENV", "production")
		os.Setenv("REPAIR_DATABASE_PASSWORD", "secure-password")
		os.Setenv("REPAIR_DATABASE_SSLMODE", "require")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("REPAIR_APP_ENV", "production")
		os.Setenv("REPAIR_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("REPAIR_APP_ENV", "production")
		os.Setenv("REPAIR_DATABASE_PASSWORD", "secure-password")
		os.Setenv("REPAIR_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects wildcard CORS origin in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("REPAIR_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins cannot be '*' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("REPAIR_HTTP_CORS_ALLOW_ORIGINS", "https://fleet.example.com")

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
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}

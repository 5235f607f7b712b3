package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "APP_ENV", "PORT", "JWT_SECRET", "JWT_EXPIRATION", "MAX_LOGIN_ATTEMPTS",
		"PASSWORD_MIN_LENGTH", "BCRYPT_COST", "STORE_DRIVER", "REVOCATION_BACKEND", "CORS_ORIGINS",
		"ADMIN_EMAIL")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "3000", cfg.ServerPort)
	require.Equal(t, DevJWTSecret, cfg.JWTSecret)
	require.Equal(t, time.Hour, cfg.JWTExpiration)
	require.Equal(t, 5, cfg.MaxLoginAttempts)
	require.Equal(t, 8, cfg.PasswordMinLen)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, StoreMongo, cfg.StoreDriver)
	require.Equal(t, RevocationMemory, cfg.RevocationBackend)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.False(t, cfg.UsesPostgres())
}

func TestLoadOverrides(t *testing.T) {
	unsetEnv(t, "APP_ENV", "REVOCATION_BACKEND", "ADMIN_EMAIL")
	t.Setenv("JWT_SECRET", " s3cret ")
	t.Setenv("JWT_EXPIRATION", "15m")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "3")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.Equal(t, 15*time.Minute, cfg.JWTExpiration)
	require.Equal(t, 3, cfg.MaxLoginAttempts)
	require.Equal(t, StorePostgres, cfg.StoreDriver)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.True(t, cfg.UsesPostgres())
}

func TestLoadRejectsMissingSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	unsetEnv(t, "APP_ENV")
	t.Setenv("JWT_EXPIRATION", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ServerPort:        "3000",
			RequestTimeout:    time.Second,
			JWTSecret:         "secret",
			JWTExpiration:     time.Hour,
			MaxLoginAttempts:  5,
			StoreDriver:       StoreMemory,
			RevocationBackend: RevocationMemory,
		}
	}

	cases := map[string]func(*Config){
		"unknown store":          func(c *Config) { c.StoreDriver = "sqlite" },
		"postgres without dsn":   func(c *Config) { c.StoreDriver = StorePostgres },
		"unknown revocation":     func(c *Config) { c.RevocationBackend = "file" },
		"pg revocation, no dsn":  func(c *Config) { c.RevocationBackend = RevocationPostgres },
		"zero attempts":          func(c *Config) { c.MaxLoginAttempts = 0 },
		"admin without password": func(c *Config) { c.AdminEmail = "root@x.com" },
		"dev secret in prod": func(c *Config) {
			c.AppEnv = "production"
			c.JWTSecret = DevJWTSecret
		},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

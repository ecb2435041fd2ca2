package config_test

import (
	"testing"
	"time"

	"travelbook/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":5500", cfg.Port)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 15*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "dev-only-secret", cfg.JWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_ProductionRequiresSecret(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]any{"APP_ENV": "production"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg, err := config.FromViper(newViper(map[string]any{
		"APP_ENV":    "production",
		"JWT_SECRET": "s3cret",
		"SMTP_HOST":  "smtp.example.com",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestFromViper_ProductionRequiresSMTPHost(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]any{"APP_ENV": "production", "JWT_SECRET": "s3cret"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_HOST")

	for _, env := range []string{"development", "test"} {
		cfg, err := config.FromViper(newViper(map[string]any{"APP_ENV": env}))
		require.NoError(t, err, env)
		assert.Empty(t, cfg.SMTPHost)
	}
}

func TestFromViper_RejectsUnknownDriver(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]any{"DB_DRIVER": "cassandra"}))
	assert.Error(t, err)
}

func TestFromViper_RejectsNonPositiveExpiry(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]any{"JWT_EXPIRY": "0s"}))
	assert.Error(t, err)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("APP_PORT", ":9999")
	cfg, err := config.Load("does-not-exist.env")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Port)
}

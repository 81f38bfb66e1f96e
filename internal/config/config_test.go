package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := decode(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, 168, cfg.JWT.ExpireHours)
	assert.Equal(t, 24, cfg.JWT.VerifyExpireHours)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, 60, cfg.Security.AuthRateLimit.WindowSeconds)
	assert.Equal(t, 50, cfg.Security.AuthRateLimit.MaxRequests)
	assert.Equal(t, "memory", cfg.Security.AuthRateLimit.Store)
	assert.Equal(t, 20, cfg.Database.Pool.MaxOpenConns)
	assert.Equal(t, 30, cfg.Database.Pool.ConnMaxIdleTimeSeconds)
	assert.Equal(t, 3, cfg.Email.MaxAttempts)
	assert.Equal(t, 1000, cfg.Email.BackoffMS)
	assert.False(t, cfg.Queue.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("APP_FRONTEND_URL", "https://console.example.com/")
	t.Setenv("SECURITY_AUTH_RATE_LIMIT_MAX_REQUESTS", "7")

	cfg, err := decode(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.SecretKey)
	assert.Equal(t, "https://console.example.com/", cfg.App.FrontendURL)
	assert.Equal(t, 7, cfg.Security.AuthRateLimit.MaxRequests)
	assert.Equal(t, []string{"https://console.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestToLoggerOptions(t *testing.T) {
	opts := LogConfig{Level: "warn", Dir: "/tmp/x", Filename: "a.log", MaxSizeMB: 3}.ToLoggerOptions()
	assert.Equal(t, "warn", opts.Level)
	assert.Equal(t, "/tmp/x", opts.Dir)
	assert.Equal(t, "a.log", opts.Filename)
	assert.Equal(t, 3, opts.MaxSizeMB)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "ENV", "HTTP_ADDR", "DATABASE_URL", "JWT_SECRET", "JWT_ACCESS_TTL",
		"CORS_ORIGINS", "SWEEP_SCHEDULE", "SWEEP_ENABLED", "SHUTDOWN_TIMEOUT",
		"SENDGRID_API_KEY", "SENDGRID_FROM_EMAIL", "SENDGRID_FROM_NAME",
		"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_FROM_NUMBER",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "novastay.db", cfg.DatabaseURL)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, "@every 1h", cfg.SweepSchedule)
	assert.True(t, cfg.SweepEnabled)
	assert.False(t, cfg.SendGrid.Enabled())
	assert.False(t, cfg.Twilio.Enabled())
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("SWEEP_ENABLED", "off")
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("SENDGRID_FROM_EMAIL", "desk@novastay.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.False(t, cfg.SweepEnabled)
	assert.Equal(t, time.Hour, cfg.JWTAccessTTL)
	assert.True(t, cfg.SendGrid.Enabled())
	assert.Equal(t, "NovaStay Hotel", cfg.SendGrid.FromName)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad ttl", map[string]string{"JWT_ACCESS_TTL": "soon"}},
		{"zero ttl", map[string]string{"JWT_ACCESS_TTL": "0s"}},
		{"bad schedule", map[string]string{"SWEEP_SCHEDULE": "whenever"}},
		{"prod default secret", map[string]string{"APP_ENV": "production", "DATABASE_URL": "postgres://x"}},
		{"prod sqlite", map[string]string{"APP_ENV": "prod", "JWT_SECRET": "real-secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:9090\n"), 0o600))

	// godotenv never overrides a variable that exists, even when empty
	require.NoError(t, os.Unsetenv("HTTP_ADDR"))

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
}

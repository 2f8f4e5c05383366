package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8090")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"APP_NAME", "PORT", "DB_DRIVER", "DB_CONNECTION", "JWT_EXPIRY", "EMAIL_NOTIFICATIONS", "EMAIL_FROM", "RESEND_API_KEY", "SENTRY_DSN"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "Goalflow", cfg.AppName)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Contains(t, cfg.DBConnection, "goalflow.db")
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.EmailNotifications)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_NAME", "Reviews")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_CONNECTION", "postgres://localhost/goals")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("EMAIL_NOTIFICATIONS", "false")

	cfg := Load()

	assert.Equal(t, "Reviews", cfg.AppName)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/goals", cfg.DBConnection)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.False(t, cfg.EmailNotifications)
}

func TestEnvHelpersFallBackOnInvalidValues(t *testing.T) {
	t.Setenv("TEST_BOOL", "sometimes")
	t.Setenv("TEST_DURATION", "soon")

	assert.True(t, envBool("TEST_BOOL", true))
	assert.Equal(t, time.Minute, envDuration("TEST_DURATION", time.Minute))
	assert.Equal(t, "fallback", envString("TEST_UNSET_STRING", "fallback"))
}

func TestSanitized(t *testing.T) {
	cfg := &Config{
		AppName:      "Goalflow",
		AppEnv:       "production",
		DBDriver:     "pgx",
		DBConnection: "postgres://user:pass@db/goals",
		JWTSecret:    "secret",
		ResendAPIKey: "re_123",
		SentryDSN:    "https://key@sentry.io/1",
	}

	safe := cfg.Sanitized()

	assert.Equal(t, "Goalflow", safe.AppName)
	assert.Equal(t, "pgx", safe.DBDriver)
	assert.Empty(t, safe.DBConnection)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.ResendAPIKey)
	assert.Empty(t, safe.SentryDSN)
}

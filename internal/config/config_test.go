package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthybychoice/pkg/i18n"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, "static", cfg.GenerationProvider)
	assert.Equal(t, 8*time.Second, cfg.AITimeout)
	assert.Equal(t, 15*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2*time.Second, cfg.AdvanceDelay)
	assert.Equal(t, 25*time.Millisecond, cfg.TypingInterval)
	assert.Equal(t, i18n.English, cfg.DefaultLocale)
	assert.Equal(t, 30, cfg.RateLimitRPM)
	assert.False(t, cfg.UseSquare())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("GENERATION_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("AI_TIMEOUT", "3s")
	t.Setenv("DEFAULT_LOCALE", "es")
	t.Setenv("SQUARE_ACCESS_TOKEN", "sq")
	t.Setenv("SQUARE_LOCATION_ID", "L1")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, "gemini", cfg.GenerationProvider)
	assert.Equal(t, 3*time.Second, cfg.AITimeout)
	assert.Equal(t, i18n.Spanish, cfg.DefaultLocale)
	assert.True(t, cfg.UseSquare())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad duration":         {"AI_TIMEOUT": "soon"},
		"bad number":           {"RATE_LIMIT_RPM": "many"},
		"postgres without url": {"SESSION_STORE": "postgres"},
		"unknown store":        {"SESSION_STORE": "etcd"},
		"openai without key":   {"GENERATION_PROVIDER": "openai"},
		"unknown provider":     {"GENERATION_PROVIDER": "llama"},
		"unknown locale":       {"DEFAULT_LOCALE": "fr"},
		"production no creds":  {"SQUARE_ENVIRONMENT": "production"},
		"zero rate":            {"RATE_LIMIT_RPM": "0"},
		"bad log format":       {"LOG_FORMAT": "xml"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

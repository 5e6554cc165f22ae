package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_RETELL_API_TOKEN", "key_test")
	t.Setenv("APP_MAX_CONCURRENT_RUNS", "9")
	t.Setenv("APP_RUN_STORE", "redis")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_POSTGRES_DSN", "")

	cfg, err := Load("onboarding_service")
	require.NoError(t, err)

	assert.Equal(t, "key_test", cfg.RetellAPIToken)
	assert.Equal(t, 9, cfg.MaxConcurrentRuns)
	assert.Equal(t, "redis", cfg.RunStore)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://api.retellai.com", cfg.RetellBaseURL)
	assert.Equal(t, "twilio", cfg.NumberProvider)
	assert.Empty(t, cfg.PostgresDSN)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{RetellAPIToken: "key", RunStore: "memory", MaxConcurrentRuns: 1}
	}

	t.Run("MissingToken", func(t *testing.T) {
		cfg := base()
		cfg.RetellAPIToken = "  "
		assert.ErrorIs(t, cfg.Validate(), ErrMissingRetellToken)
	})

	t.Run("UnknownRunStore", func(t *testing.T) {
		cfg := base()
		cfg.RunStore = "etcd"
		assert.ErrorContains(t, cfg.Validate(), "RUN_STORE")
	})

	t.Run("ZeroConcurrency", func(t *testing.T) {
		cfg := base()
		cfg.MaxConcurrentRuns = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})
}

func TestConfig_Durations(t *testing.T) {
	cfg := &Config{RemoteTimeoutSeconds: 60, RunTimeoutMinutes: 15, RunStatusTTLHours: 72}
	assert.Equal(t, time.Minute, cfg.RemoteTimeout())
	assert.Equal(t, 15*time.Minute, cfg.RunTimeout())
	assert.Equal(t, 72*time.Hour, cfg.RunStatusTTL())
}

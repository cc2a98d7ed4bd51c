package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:             "8080",
		Stage:            "dev",
		EncryptionSecret: strings.Repeat("s", 32),
		RateLimit:        3,
		RateWindowMS:     60000,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("accepts a valid config", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("rejects a short encryption secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.EncryptionSecret = "too-short"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "VAULT_ENCRYPTION_SECRET")
	})

	t.Run("rejects a non-positive rate limit", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateLimit = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects a non-positive window", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateWindowMS = -1
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_RateWindow(t *testing.T) {
	cfg := validConfig()
	cfg.RateWindowMS = 1500
	assert.Equal(t, 1500*time.Millisecond, cfg.RateWindow())
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.IsProduction())

	cfg.Stage = "prod"
	assert.True(t, cfg.IsProduction())

	cfg.Stage = "production"
	assert.True(t, cfg.IsProduction())
}

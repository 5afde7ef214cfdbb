package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := FromViper(v)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.DBTxTimeout)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.False(t, cfg.IsProduction)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("DB_TX_TIMEOUT", "250ms")
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	v.Set("DEFAULT_CURRENCY", "eur")
	v.Set("IS_PRODUCTION", "true")

	cfg := FromViper(v)

	assert.Equal(t, 250*time.Millisecond, cfg.DBTxTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.True(t, cfg.IsProduction)
}

func TestFromViper_InvalidTimeoutFallsBack(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("DB_TX_TIMEOUT", "soon")

	assert.Equal(t, 5*time.Second, FromViper(v).DBTxTimeout)
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT", "5-S")

	cfg, err := LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "5-S", cfg.RateLimit)
}

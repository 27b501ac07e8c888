package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("REPORTING_TIMEZONE", "")
	t.Setenv("FISCAL_YEAR_START_MONTH", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "V", cfg.VoucherPrefix)
	assert.Equal(t, "C-001", cfg.CashAccountCode)
	assert.Equal(t, "R-200", cfg.DefaultRevenueAccountCode)
	assert.Equal(t, time.July, cfg.FiscalYearStartMonth)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, "KSh", cfg.CurrencyLabel)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	viper.Reset()
	t.Setenv("FISCAL_YEAR_START_MONTH", "13")
	t.Setenv("REPORTING_TIMEZONE", "Mars/Olympus_Mons")
	t.Setenv("IDEMPOTENCY_TTL", "soon")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, time.July, cfg.FiscalYearStartMonth)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

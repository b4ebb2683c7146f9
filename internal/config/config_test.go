package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos-backend/internal/billing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/pos")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, float64(billing.DefaultTaxRatePercent), cfg.TaxRatePercent)
	assert.Equal(t, 10, cfg.LowStockThreshold)
	assert.Equal(t, 50, cfg.HighStockThreshold)
	assert.True(t, cfg.AllowOversell)
	assert.Equal(t, 5, cfg.TopProductsLimit)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pos")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	setRequired(t)
	t.Setenv("LOW_STOCK_THRESHOLD", "60")
	t.Setenv("HIGH_STOCK_THRESHOLD", "50")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetDurationAcceptsBareSeconds(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_READ_TIMEOUT", "20")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, cfg.ReadTimeout)
}

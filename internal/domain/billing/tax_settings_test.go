package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVendorTaxSettings(t *testing.T) {
	vendorID := uuid.New()

	settings, err := NewVendorTaxSettings(vendorID, decimal.NewFromInt(7), decimal.NewFromInt(1), true)
	require.NoError(t, err)
	cfg := settings.TaxConfig()
	assert.Equal(t, "7", cfg.VatRate.String())
	assert.Equal(t, "1", cfg.WhtRate.String())
	assert.True(t, cfg.CalculateBeforeVat)

	_, err = NewVendorTaxSettings(uuid.Nil, decimal.NewFromInt(7), decimal.NewFromInt(3), false)
	require.Error(t, err)

	_, err = NewVendorTaxSettings(vendorID, decimal.NewFromInt(-1), decimal.NewFromInt(3), false)
	require.Error(t, err)

	_, err = NewVendorTaxSettings(vendorID, decimal.NewFromInt(7), decimal.NewFromInt(101), false)
	require.Error(t, err)
}

func TestTaxConfigFor(t *testing.T) {
	t.Run("nil settings fall back to defaults", func(t *testing.T) {
		cfg := TaxConfigFor(nil, nil)
		assert.Equal(t, "7", cfg.VatRate.String())
		assert.Equal(t, "3", cfg.WhtRate.String())
		assert.False(t, cfg.CalculateBeforeVat)
	})

	t.Run("override flips calculation mode only", func(t *testing.T) {
		settings, err := NewVendorTaxSettings(uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(2), false)
		require.NoError(t, err)
		override := true
		cfg := TaxConfigFor(settings, &override)
		assert.Equal(t, "10", cfg.VatRate.String())
		assert.True(t, cfg.CalculateBeforeVat)
	})
}

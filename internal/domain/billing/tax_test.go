package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amounts(vals ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestCalculateVatInclusive(t *testing.T) {
	// Line amounts are VAT-inclusive; pre-VAT price is extracted.
	calc := Calculate(amounts("1070.00"), TaxConfig{
		VatRate:            decimal.NewFromInt(7),
		WhtRate:            decimal.NewFromInt(3),
		CalculateBeforeVat: false,
	})

	assert.Equal(t, "1070.00", calc.Subtotal.StringFixed(2))
	assert.Equal(t, "1000.00", calc.PriceBeforeVat.StringFixed(2))
	assert.Equal(t, "70.00", calc.VatAmount.StringFixed(2))
	assert.Equal(t, "30.00", calc.WhtAmount.StringFixed(2))
	assert.Equal(t, "1040.00", calc.NetTotal.StringFixed(2))
}

func TestCalculateBeforeVat(t *testing.T) {
	// Line amounts are already pre-VAT.
	calc := Calculate(amounts("1070.00"), TaxConfig{
		VatRate:            decimal.NewFromInt(7),
		WhtRate:            decimal.NewFromInt(3),
		CalculateBeforeVat: true,
	})

	assert.Equal(t, "1070.00", calc.PriceBeforeVat.StringFixed(2))
	assert.Equal(t, "74.90", calc.VatAmount.StringFixed(2))
	assert.Equal(t, "32.10", calc.WhtAmount.StringFixed(2))
	assert.Equal(t, "1112.80", calc.NetTotal.StringFixed(2))
}

func TestCalculateMultipleItems(t *testing.T) {
	calc := Calculate(amounts("500.00", "320.50", "249.50"), DefaultTaxConfig())
	assert.Equal(t, "1070.00", calc.Subtotal.StringFixed(2))
	assert.Equal(t, "1000.00", calc.PriceBeforeVat.StringFixed(2))
}

func TestCalculateRoundsEachStep(t *testing.T) {
	// 100.33 / 1.07 = 93.7663... -> 93.77; VAT then derives from the
	// rounded pre-VAT price, not the unrounded quotient.
	calc := Calculate(amounts("100.33"), DefaultTaxConfig())
	assert.Equal(t, "93.77", calc.PriceBeforeVat.StringFixed(2))
	assert.Equal(t, "6.56", calc.VatAmount.StringFixed(2))
	assert.Equal(t, "2.81", calc.WhtAmount.StringFixed(2))
	assert.Equal(t, "97.52", calc.NetTotal.StringFixed(2))
}

func TestCalculateEmptyAndZero(t *testing.T) {
	calc := Calculate(nil, DefaultTaxConfig())
	assert.True(t, calc.Subtotal.IsZero())
	assert.True(t, calc.NetTotal.IsZero())

	calc = Calculate(amounts("0"), DefaultTaxConfig())
	assert.True(t, calc.NetTotal.IsZero())
}

func TestRateText(t *testing.T) {
	calc := Calculate(nil, DefaultTaxConfig())
	assert.Equal(t, "7%", calc.VatRateText())
	assert.Equal(t, "3%", calc.WhtRateText())
}

func TestDefaultTaxConfig(t *testing.T) {
	cfg := DefaultTaxConfig()
	assert.Equal(t, "7", cfg.VatRate.String())
	assert.Equal(t, "3", cfg.WhtRate.String())
	assert.False(t, cfg.CalculateBeforeVat)
}

package billing

import (
	"github.com/shopspring/decimal"
)

// Default tax rates applied when a vendor has no tax settings.
// VAT 7% / WHT 3% are the canonical defaults for every fallback path.
var (
	DefaultVatRate = decimal.NewFromInt(7)
	DefaultWhtRate = decimal.NewFromInt(3)
)

var oneHundred = decimal.NewFromInt(100)

// TaxConfig is the per-vendor tax configuration consumed by Calculate
type TaxConfig struct {
	VatRate            decimal.Decimal
	WhtRate            decimal.Decimal
	CalculateBeforeVat bool
}

// DefaultTaxConfig returns the fallback configuration used when a vendor
// has no stored tax settings
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		VatRate:            DefaultVatRate,
		WhtRate:            DefaultWhtRate,
		CalculateBeforeVat: false,
	}
}

// Calculation is a frozen monetary snapshot. Every amount is rounded to
// two decimal places at the step it is produced, never re-derived from
// unrounded intermediates.
type Calculation struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	PriceBeforeVat decimal.Decimal `json:"price_before_vat"`
	VatAmount      decimal.Decimal `json:"vat_amount"`
	WhtAmount      decimal.Decimal `json:"wht_amount"`
	NetTotal       decimal.Decimal `json:"net_total"`
	VatRate        decimal.Decimal `json:"vat_rate"`
	WhtRate        decimal.Decimal `json:"wht_rate"`
}

// Calculate computes the tax breakdown for a set of line amounts.
//
// Two conventions are supported: when cfg.CalculateBeforeVat is true the
// line amounts are already pre-VAT; otherwise they are VAT-inclusive and
// the pre-VAT price is extracted by dividing by (1 + VAT/100).
//
// Pure function: never fails. Callers decide whether an empty amount set
// is acceptable before calling.
func Calculate(amounts []decimal.Decimal, cfg TaxConfig) Calculation {
	subtotal := decimal.Zero
	for _, a := range amounts {
		subtotal = subtotal.Add(a)
	}

	var priceBeforeVat decimal.Decimal
	if cfg.CalculateBeforeVat {
		priceBeforeVat = subtotal
	} else {
		divisor := decimal.NewFromInt(1).Add(cfg.VatRate.Div(oneHundred))
		priceBeforeVat = subtotal.Div(divisor).Round(2)
	}

	vatAmount := priceBeforeVat.Mul(cfg.VatRate).Div(oneHundred).Round(2)
	whtAmount := priceBeforeVat.Mul(cfg.WhtRate).Div(oneHundred).Round(2)
	netTotal := priceBeforeVat.Add(vatAmount).Sub(whtAmount).Round(2)

	return Calculation{
		Subtotal:       subtotal,
		PriceBeforeVat: priceBeforeVat,
		VatAmount:      vatAmount,
		WhtAmount:      whtAmount,
		NetTotal:       netTotal,
		VatRate:        cfg.VatRate,
		WhtRate:        cfg.WhtRate,
	}
}

// VatRateText renders the VAT rate as the human-readable snapshot stored
// on billing notes, e.g. "7%"
func (c Calculation) VatRateText() string {
	return c.VatRate.String() + "%"
}

// WhtRateText renders the WHT rate snapshot, e.g. "3%"
func (c Calculation) WhtRateText() string {
	return c.WhtRate.String() + "%"
}

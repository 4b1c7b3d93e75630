package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorbill/backend/internal/domain/shared"
)

// VendorTaxSettings is the per-vendor tax configuration. A vendor with
// no settings row falls back to the canonical defaults (VAT 7%, WHT 3%).
type VendorTaxSettings struct {
	shared.BaseEntity
	VendorID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"vendor_id"`
	VatRate            decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"vat_rate"`
	WhtRate            decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"wht_rate"`
	CalculateBeforeVat bool            `gorm:"not null;default:false" json:"calculate_before_vat"`
}

// TableName returns the table name for GORM
func (VendorTaxSettings) TableName() string {
	return "vendor_tax_settings"
}

// NewVendorTaxSettings creates validated tax settings for a vendor
func NewVendorTaxSettings(vendorID uuid.UUID, vatRate, whtRate decimal.Decimal, calculateBeforeVat bool) (*VendorTaxSettings, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	if vatRate.IsNegative() || whtRate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tax rates cannot be negative")
	}
	hundred := decimal.NewFromInt(100)
	if vatRate.GreaterThan(hundred) || whtRate.GreaterThan(hundred) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tax rates cannot exceed 100 percent")
	}
	return &VendorTaxSettings{
		BaseEntity:         shared.NewBaseEntity(),
		VendorID:           vendorID,
		VatRate:            vatRate,
		WhtRate:            whtRate,
		CalculateBeforeVat: calculateBeforeVat,
	}, nil
}

// TaxConfig converts the settings into the calculator's input form
func (s *VendorTaxSettings) TaxConfig() TaxConfig {
	return TaxConfig{
		VatRate:            s.VatRate,
		WhtRate:            s.WhtRate,
		CalculateBeforeVat: s.CalculateBeforeVat,
	}
}

// TaxConfigFor resolves the effective tax configuration for a vendor,
// applying defaults when no settings row exists. The override flips the
// calculation mode per request without touching stored settings.
func TaxConfigFor(settings *VendorTaxSettings, beforeVatOverride *bool) TaxConfig {
	cfg := DefaultTaxConfig()
	if settings != nil {
		cfg = settings.TaxConfig()
	}
	if beforeVatOverride != nil {
		cfg.CalculateBeforeVat = *beforeVatOverride
	}
	return cfg
}

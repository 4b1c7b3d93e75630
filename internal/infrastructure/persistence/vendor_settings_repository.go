package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vendorbill/backend/internal/domain/billing"
)

// GormVendorTaxSettingsRepository implements VendorTaxSettingsRepository
// using GORM
type GormVendorTaxSettingsRepository struct {
	db *gorm.DB
}

// NewGormVendorTaxSettingsRepository creates a new
// GormVendorTaxSettingsRepository
func NewGormVendorTaxSettingsRepository(db *gorm.DB) *GormVendorTaxSettingsRepository {
	return &GormVendorTaxSettingsRepository{db: db}
}

// FindByVendorID finds the vendor's tax settings, nil when the vendor
// still runs on defaults
func (r *GormVendorTaxSettingsRepository) FindByVendorID(ctx context.Context, vendorID uuid.UUID) (*billing.VendorTaxSettings, error) {
	var settings billing.VendorTaxSettings
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Upsert inserts or replaces the vendor's tax settings
func (r *GormVendorTaxSettingsRepository) Upsert(ctx context.Context, settings *billing.VendorTaxSettings) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vendor_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"vat_rate":             settings.VatRate,
			"wht_rate":             settings.WhtRate,
			"calculate_before_vat": settings.CalculateBeforeVat,
			"updated_at":           time.Now(),
		}),
	}).Create(settings).Error
}

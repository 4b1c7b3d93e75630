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

// documentNumberConfigModel is the storage shape of a numbering
// configuration, unique per vendor and document type
type documentNumberConfigModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	VendorID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_doc_cfg_vendor_type"`
	DocumentType  string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_doc_cfg_vendor_type"`
	Enabled       bool      `gorm:"not null;default:false"`
	Prefix        string    `gorm:"type:varchar(10);not null"`
	DateFormat    string    `gorm:"type:varchar(10);not null"`
	RunningDigits int       `gorm:"not null"`
	ResetPeriod   string    `gorm:"type:varchar(10);not null"`
	UpdatedAt     time.Time
}

func (documentNumberConfigModel) TableName() string {
	return "document_number_configs"
}

func (m *documentNumberConfigModel) toDomain() *billing.DocumentNumberConfig {
	return &billing.DocumentNumberConfig{
		ID:            m.ID,
		VendorID:      m.VendorID,
		DocumentType:  billing.DocumentType(m.DocumentType),
		Enabled:       m.Enabled,
		Prefix:        m.Prefix,
		DateFormat:    billing.DateFormat(m.DateFormat),
		RunningDigits: m.RunningDigits,
		ResetPeriod:   billing.ResetPeriod(m.ResetPeriod),
		UpdatedAt:     m.UpdatedAt,
	}
}

func configModelFromDomain(cfg *billing.DocumentNumberConfig) *documentNumberConfigModel {
	return &documentNumberConfigModel{
		ID:            cfg.ID,
		VendorID:      cfg.VendorID,
		DocumentType:  cfg.DocumentType.String(),
		Enabled:       cfg.Enabled,
		Prefix:        cfg.Prefix,
		DateFormat:    string(cfg.DateFormat),
		RunningDigits: cfg.RunningDigits,
		ResetPeriod:   string(cfg.ResetPeriod),
		UpdatedAt:     cfg.UpdatedAt,
	}
}

// documentNumberSequenceModel is one running counter row. The composite
// primary key is the conflict target for the atomic upsert-increment.
type documentNumberSequenceModel struct {
	VendorID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentType string    `gorm:"type:varchar(30);primaryKey"`
	PeriodKey    string    `gorm:"type:varchar(10);primaryKey"`
	LastNumber   int       `gorm:"not null"`
}

func (documentNumberSequenceModel) TableName() string {
	return "document_number_sequences"
}

// GormDocumentNumberConfigRepository implements
// DocumentNumberConfigRepository using GORM
type GormDocumentNumberConfigRepository struct {
	db *gorm.DB
}

// NewGormDocumentNumberConfigRepository creates a new
// GormDocumentNumberConfigRepository
func NewGormDocumentNumberConfigRepository(db *gorm.DB) *GormDocumentNumberConfigRepository {
	return &GormDocumentNumberConfigRepository{db: db}
}

// FindByVendorAndType finds a numbering configuration, nil when none
// exists
func (r *GormDocumentNumberConfigRepository) FindByVendorAndType(ctx context.Context, vendorID uuid.UUID, docType billing.DocumentType) (*billing.DocumentNumberConfig, error) {
	var model documentNumberConfigModel
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND document_type = ?", vendorID, docType.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.toDomain(), nil
}

// ListByVendor returns all numbering configurations for a vendor
func (r *GormDocumentNumberConfigRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]billing.DocumentNumberConfig, error) {
	var models []documentNumberConfigModel
	if err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("document_type").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]billing.DocumentNumberConfig, len(models))
	for i := range models {
		out[i] = *models[i].toDomain()
	}
	return out, nil
}

// Upsert inserts or replaces the configuration for a vendor and
// document type
func (r *GormDocumentNumberConfigRepository) Upsert(ctx context.Context, config *billing.DocumentNumberConfig) error {
	model := configModelFromDomain(config)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vendor_id"}, {Name: "document_type"}},
		DoUpdates: clause.Assignments(map[string]any{
			"enabled":        model.Enabled,
			"prefix":         model.Prefix,
			"date_format":    model.DateFormat,
			"running_digits": model.RunningDigits,
			"reset_period":   model.ResetPeriod,
			"updated_at":     time.Now(),
		}),
	}).Create(model).Error
}

// Delete removes the configuration for a vendor and document type
func (r *GormDocumentNumberConfigRepository) Delete(ctx context.Context, vendorID uuid.UUID, docType billing.DocumentType) error {
	return r.db.WithContext(ctx).
		Where("vendor_id = ? AND document_type = ?", vendorID, docType.String()).
		Delete(&documentNumberConfigModel{}).Error
}

// GormDocumentSequenceRepository implements DocumentSequenceRepository
// using GORM
type GormDocumentSequenceRepository struct {
	db *gorm.DB
}

// NewGormDocumentSequenceRepository creates a new
// GormDocumentSequenceRepository
func NewGormDocumentSequenceRepository(db *gorm.DB) *GormDocumentSequenceRepository {
	return &GormDocumentSequenceRepository{db: db}
}

// Next atomically increments and returns the counter for the key. The
// insert-or-increment is a single upsert with RETURNING, so two
// concurrent callers always observe distinct numbers.
func (r *GormDocumentSequenceRepository) Next(ctx context.Context, vendorID uuid.UUID, docType billing.DocumentType, periodKey string) (int, error) {
	model := documentNumberSequenceModel{
		VendorID:     vendorID,
		DocumentType: docType.String(),
		PeriodKey:    periodKey,
		LastNumber:   1,
	}
	err := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "vendor_id"}, {Name: "document_type"}, {Name: "period_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"last_number": gorm.Expr("last_number + 1"),
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "last_number"}}},
	).Create(&model).Error
	if err != nil {
		return 0, err
	}
	return model.LastNumber, nil
}

// Current returns the counter without incrementing, zero when the key
// has never been used
func (r *GormDocumentSequenceRepository) Current(ctx context.Context, vendorID uuid.UUID, docType billing.DocumentType, periodKey string) (int, error) {
	var model documentNumberSequenceModel
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND document_type = ? AND period_key = ?", vendorID, docType.String(), periodKey).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return model.LastNumber, nil
}

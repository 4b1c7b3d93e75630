package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/shared"
)

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt by ID, nil when it does not exist
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Receipt, error) {
	var receipt billing.Receipt
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&receipt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByBillingNoteID finds the receipt issued for a billing note, nil
// when none exists
func (r *GormReceiptRepository) FindByBillingNoteID(ctx context.Context, billingNoteID uuid.UUID) (*billing.Receipt, error) {
	var receipt billing.Receipt
	err := r.db.WithContext(ctx).Where("billing_note_id = ?", billingNoteID).First(&receipt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// List returns a paginated page of the vendor's receipts
func (r *GormReceiptRepository) List(ctx context.Context, filter billing.ReceiptFilter) (*shared.Paginated[billing.Receipt], error) {
	filter.Normalize()
	query := r.db.WithContext(ctx).Model(&billing.Receipt{}).Where("vendor_id = ?", filter.VendorID)
	if filter.Search != "" {
		query = query.Where("receipt_ref ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var receipts []billing.Receipt
	err := query.Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(filter.Offset()).
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(receipts, total, filter.Page, filter.PageSize), nil
}

// ExistsByRef reports whether any receipt already carries the reference
func (r *GormReceiptRepository) ExistsByRef(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&billing.Receipt{}).
		Where("receipt_ref = ?", ref).
		Count(&count).Error
	return count > 0, err
}

// CreateAndMarkBillingPaid persists the receipt and the note's PAID
// status in one transaction
func (r *GormReceiptRepository) CreateAndMarkBillingPaid(ctx context.Context, receipt *billing.Receipt, note *billing.BillingNote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(receipt).Error; err != nil {
			return err
		}
		return tx.Omit("Jobs").Save(note).Error
	})
}

// DeleteAndRevertBilling removes the receipt and reverts the note in one
// transaction
func (r *GormReceiptRepository) DeleteAndRevertBilling(ctx context.Context, receipt *billing.Receipt, note *billing.BillingNote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", receipt.ID).Delete(&billing.Receipt{}).Error; err != nil {
			return err
		}
		return tx.Omit("Jobs").Save(note).Error
	})
}

// SaveWithBilling updates the receipt and, when note is non-nil, the
// note in one transaction
func (r *GormReceiptRepository) SaveWithBilling(ctx context.Context, receipt *billing.Receipt, note *billing.BillingNote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(receipt).Error; err != nil {
			return err
		}
		if note != nil {
			return tx.Omit("Jobs").Save(note).Error
		}
		return nil
	})
}

// MaxFallbackSequence scans the vendor's legacy receipt refs for
// prefix+year and returns the highest running number found
func (r *GormReceiptRepository) MaxFallbackSequence(ctx context.Context, vendorID uuid.UUID, prefix string, year int) (int, error) {
	var refs []string
	err := r.db.WithContext(ctx).Model(&billing.Receipt{}).
		Where("vendor_id = ? AND receipt_ref LIKE ?", vendorID, fmt.Sprintf("%s%d-%%", prefix, year)).
		Pluck("receipt_ref", &refs).Error
	if err != nil {
		return 0, err
	}
	return maxRefSequence(refs), nil
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/shared"
)

// GormPaymentVoucherRepository implements PaymentVoucherRepository using
// GORM
type GormPaymentVoucherRepository struct {
	db *gorm.DB
}

// NewGormPaymentVoucherRepository creates a new
// GormPaymentVoucherRepository
func NewGormPaymentVoucherRepository(db *gorm.DB) *GormPaymentVoucherRepository {
	return &GormPaymentVoucherRepository{db: db}
}

// FindByID finds a voucher with its member notes, nil when it does not
// exist
func (r *GormPaymentVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentVoucher, error) {
	var voucher billing.PaymentVoucher
	err := r.db.WithContext(ctx).Preload("BillingNotes").Where("id = ?", id).First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// List returns a paginated page of vouchers, optionally scoped to one
// vendor
func (r *GormPaymentVoucherRepository) List(ctx context.Context, filter billing.PaymentVoucherFilter) (*shared.Paginated[billing.PaymentVoucher], error) {
	filter.Normalize()
	query := r.db.WithContext(ctx).Model(&billing.PaymentVoucher{})
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("voucher_ref ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var vouchers []billing.PaymentVoucher
	err := query.Preload("BillingNotes").
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(filter.Offset()).
		Find(&vouchers).Error
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(vouchers, total, filter.Page, filter.PageSize), nil
}

// Update saves the voucher without touching member linkage
func (r *GormPaymentVoucherRepository) Update(ctx context.Context, voucher *billing.PaymentVoucher) error {
	return r.db.WithContext(ctx).Omit("BillingNotes").Save(voucher).Error
}

// ExistsByRef reports whether any voucher already carries the reference
func (r *GormPaymentVoucherRepository) ExistsByRef(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&billing.PaymentVoucher{}).
		Where("voucher_ref = ?", ref).
		Count(&count).Error
	return count > 0, err
}

// CreateWithMembers persists the voucher and approves every member note
// onto it. The member update is guarded on SUBMITTED and unvouchered; a
// short row count aborts the transaction.
func (r *GormPaymentVoucherRepository) CreateWithMembers(ctx context.Context, voucher *billing.PaymentVoucher, memberIDs []uuid.UUID) error {
	if len(memberIDs) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment voucher requires at least one billing note")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("BillingNotes").Create(voucher).Error; err != nil {
			return err
		}
		res := tx.Model(&billing.BillingNote{}).
			Where("vendor_id = ? AND id IN ? AND status = ? AND payment_voucher_id IS NULL",
				voucher.VendorID, memberIDs, billing.BillingNoteStatusSubmitted).
			Updates(map[string]any{
				"status":             billing.BillingNoteStatusApproved,
				"payment_voucher_id": voucher.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(memberIDs)) {
			return shared.NewDomainError("INVALID_STATE", "One or more billing notes are no longer available for payment")
		}
		return nil
	})
}

// CancelAndReleaseMembers reverts every member note to SUBMITTED and
// removes the voucher. With keepRow the voucher row survives as
// CANCELLED.
func (r *GormPaymentVoucherRepository) CancelAndReleaseMembers(ctx context.Context, voucher *billing.PaymentVoucher, keepRow bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&billing.BillingNote{}).
			Where("payment_voucher_id = ?", voucher.ID).
			Updates(map[string]any{
				"status":             billing.BillingNoteStatusSubmitted,
				"payment_voucher_id": nil,
			}).Error
		if err != nil {
			return err
		}
		if keepRow {
			return tx.Omit("BillingNotes").Save(voucher).Error
		}
		return tx.Where("id = ?", voucher.ID).Delete(&billing.PaymentVoucher{}).Error
	})
}

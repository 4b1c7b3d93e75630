package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vendorbill/backend/internal/domain/shared"
)

// JobFilter narrows job list queries
type JobFilter struct {
	shared.Filter
	VendorID uuid.UUID
	Status   *JobStatus
}

// BillingNoteFilter narrows billing note list queries
type BillingNoteFilter struct {
	shared.Filter
	VendorID uuid.UUID
	Status   *BillingNoteStatus
}

// ReceiptFilter narrows receipt list queries
type ReceiptFilter struct {
	shared.Filter
	VendorID uuid.UUID
}

// PaymentVoucherFilter narrows voucher list queries
type PaymentVoucherFilter struct {
	shared.Filter
	VendorID *uuid.UUID
	Status   *VoucherStatus
}

// JobRepository persists jobs and their items
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)
	FindByIDs(ctx context.Context, vendorID uuid.UUID, ids []uuid.UUID) ([]Job, error)
	List(ctx context.Context, filter JobFilter) (*shared.Paginated[Job], error)
}

// BillingNoteRepository persists billing notes. The multi-entity
// operations run job linkage and note writes in one transaction with
// conditional guards; a count mismatch on the guarded update aborts the
// whole transaction.
type BillingNoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BillingNote, error)
	FindByIDs(ctx context.Context, vendorID uuid.UUID, ids []uuid.UUID) ([]BillingNote, error)
	List(ctx context.Context, filter BillingNoteFilter) (*shared.Paginated[BillingNote], error)
	ExistsByRef(ctx context.Context, ref string) (bool, error)
	Update(ctx context.Context, note *BillingNote) error

	// CreateWithJobs persists the note and atomically marks every job in
	// jobIDs BILLED with the note's ID. Fails if any job is no longer
	// PENDING for the note's vendor.
	CreateWithJobs(ctx context.Context, note *BillingNote, jobIDs []uuid.UUID) error

	// UpdateWithJobSet releases the note's current jobs, relinks the new
	// set, and saves the recomputed snapshot, all in one transaction.
	UpdateWithJobSet(ctx context.Context, note *BillingNote, jobIDs []uuid.UUID) error

	// CancelWithJobRelease saves the cancelled note and releases every
	// linked job back to PENDING in one transaction.
	CancelWithJobRelease(ctx context.Context, note *BillingNote) error

	// MaxFallbackSequence returns the highest legacy running number
	// already used by the vendor's refs matching prefix+year.
	MaxFallbackSequence(ctx context.Context, vendorID uuid.UUID, prefix string, year int) (int, error)
}

// ReceiptRepository persists receipts. Receipt writes always pair with a
// billing note status change in the same transaction.
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	FindByBillingNoteID(ctx context.Context, billingNoteID uuid.UUID) (*Receipt, error)
	List(ctx context.Context, filter ReceiptFilter) (*shared.Paginated[Receipt], error)
	ExistsByRef(ctx context.Context, ref string) (bool, error)

	// CreateAndMarkBillingPaid persists the receipt and forces the parent
	// note to PAID in one transaction.
	CreateAndMarkBillingPaid(ctx context.Context, receipt *Receipt, note *BillingNote) error

	// DeleteAndRevertBilling removes the receipt and reverts the parent
	// note to PENDING in one transaction.
	DeleteAndRevertBilling(ctx context.Context, receipt *Receipt, note *BillingNote) error

	// SaveWithBilling updates the receipt and, when note is non-nil, the
	// parent note in one transaction.
	SaveWithBilling(ctx context.Context, receipt *Receipt, note *BillingNote) error

	// MaxFallbackSequence mirrors the billing note fallback scan for
	// receipt refs.
	MaxFallbackSequence(ctx context.Context, vendorID uuid.UUID, prefix string, year int) (int, error)
}

// PaymentVoucherRepository persists payment vouchers
type PaymentVoucherRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentVoucher, error)
	List(ctx context.Context, filter PaymentVoucherFilter) (*shared.Paginated[PaymentVoucher], error)
	Update(ctx context.Context, voucher *PaymentVoucher) error
	ExistsByRef(ctx context.Context, ref string) (bool, error)

	// CreateWithMembers persists the voucher and atomically approves
	// every member note onto it. Fails if any member is no longer
	// SUBMITTED and unvouchered.
	CreateWithMembers(ctx context.Context, voucher *PaymentVoucher, memberIDs []uuid.UUID) error

	// CancelAndReleaseMembers reverts every member note to SUBMITTED and
	// removes the voucher in one transaction. When keepRow is true the
	// voucher row is saved as CANCELLED instead of deleted.
	CancelAndReleaseMembers(ctx context.Context, voucher *PaymentVoucher, keepRow bool) error
}

// DocumentNumberConfigRepository persists per-vendor numbering rules
type DocumentNumberConfigRepository interface {
	FindByVendorAndType(ctx context.Context, vendorID uuid.UUID, docType DocumentType) (*DocumentNumberConfig, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]DocumentNumberConfig, error)
	Upsert(ctx context.Context, config *DocumentNumberConfig) error
	Delete(ctx context.Context, vendorID uuid.UUID, docType DocumentType) error
}

// DocumentSequenceRepository owns the contended running counters. Next
// must be a single atomic upsert-increment; two concurrent calls for the
// same key must observe distinct numbers.
type DocumentSequenceRepository interface {
	Next(ctx context.Context, vendorID uuid.UUID, docType DocumentType, periodKey string) (int, error)
	Current(ctx context.Context, vendorID uuid.UUID, docType DocumentType, periodKey string) (int, error)
}

// VendorTaxSettingsRepository persists vendor tax settings
type VendorTaxSettingsRepository interface {
	FindByVendorID(ctx context.Context, vendorID uuid.UUID) (*VendorTaxSettings, error)
	Upsert(ctx context.Context, settings *VendorTaxSettings) error
}

// Clock abstracts time for number allocation so period rollover is
// testable
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock
type SystemClock struct{}

// Now returns the current wall time
func (SystemClock) Now() time.Time {
	return time.Now()
}

package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vendorbill/backend/internal/domain/shared"
)

// ReceiptStatus represents the receipt lifecycle state
type ReceiptStatus string

const (
	ReceiptStatusPending ReceiptStatus = "PENDING"
	ReceiptStatusPaid    ReceiptStatus = "PAID"
)

// IsValid checks if the receipt status is known
func (s ReceiptStatus) IsValid() bool {
	return s == ReceiptStatusPending || s == ReceiptStatusPaid
}

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// Receipt records payment of exactly one billing note. Issuance implies
// payment, so a new receipt starts PAID and forces the parent note to
// PAID in the same transaction.
type Receipt struct {
	shared.VendorAggregateRoot
	ReceiptRef    string        `gorm:"type:varchar(50);not null;uniqueIndex" json:"receipt_ref"`
	BillingNoteID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"billing_note_id"`
	ReceiptDate   time.Time     `gorm:"not null" json:"receipt_date"`
	Status        ReceiptStatus `gorm:"type:varchar(20);not null;default:'PAID'" json:"status"`
	PdfURL        string        `gorm:"type:varchar(500)" json:"pdf_url"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}

// NewReceipt issues a receipt against an eligible billing note. The note
// must not be cancelled, must carry no existing receipt, and must be
// APPROVED (or PAID for the re-issue case).
func NewReceipt(note *BillingNote, receiptRef string, receiptDate time.Time) (*Receipt, error) {
	if note == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Billing note is required")
	}
	if strings.TrimSpace(receiptRef) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receipt reference cannot be empty")
	}
	if note.Status == BillingNoteStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot issue a receipt for a cancelled billing note")
	}
	if note.Status != BillingNoteStatusApproved && note.Status != BillingNoteStatusPaid {
		return nil, shared.NewDomainError("INVALID_STATE", "Billing note must be approved before a receipt can be issued")
	}
	if receiptDate.IsZero() {
		receiptDate = time.Now()
	}
	receipt := &Receipt{
		VendorAggregateRoot: shared.NewVendorAggregateRoot(note.VendorID),
		ReceiptRef:          strings.TrimSpace(receiptRef),
		BillingNoteID:       note.ID,
		ReceiptDate:         receiptDate,
		Status:              ReceiptStatusPaid,
	}
	receipt.AddDomainEvent(NewReceiptIssuedEvent(receipt))
	return receipt, nil
}

// MarkPending moves a paid receipt back to pending. Used by the
// admin-only status update; optionally paired with reverting the parent
// billing note.
func (r *Receipt) MarkPending() error {
	if r.Status != ReceiptStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Only paid receipts can be reverted to pending")
	}
	r.Status = ReceiptStatusPending
	r.UpdatedAt = time.Now()
	return nil
}

// MarkPaid restores a pending receipt
func (r *Receipt) MarkPaid() error {
	if r.Status != ReceiptStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Receipt is already paid")
	}
	r.Status = ReceiptStatusPaid
	r.UpdatedAt = time.Now()
	return nil
}

// SetPdfURL records where the rendered document was written
func (r *Receipt) SetPdfURL(url string) {
	r.PdfURL = url
	r.UpdatedAt = time.Now()
}

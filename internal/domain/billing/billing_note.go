package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorbill/backend/internal/domain/shared"
)

// BillingNoteStatus represents the billing note lifecycle state
type BillingNoteStatus string

const (
	BillingNoteStatusPending   BillingNoteStatus = "PENDING"
	BillingNoteStatusSubmitted BillingNoteStatus = "SUBMITTED"
	BillingNoteStatusApproved  BillingNoteStatus = "APPROVED"
	BillingNoteStatusPaid      BillingNoteStatus = "PAID"
	BillingNoteStatusCancelled BillingNoteStatus = "CANCELLED"
)

// IsValid checks if the billing note status is known
func (s BillingNoteStatus) IsValid() bool {
	switch s {
	case BillingNoteStatusPending, BillingNoteStatusSubmitted, BillingNoteStatusApproved,
		BillingNoteStatusPaid, BillingNoteStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BillingNoteStatus
func (s BillingNoteStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status admits no further transitions
func (s BillingNoteStatus) IsTerminal() bool {
	return s == BillingNoteStatusCancelled
}

// CanTransitionTo enforces the authoritative status machine. Every
// status change, including the generic status-update endpoint, goes
// through this table.
func (s BillingNoteStatus) CanTransitionTo(target BillingNoteStatus) bool {
	switch s {
	case BillingNoteStatusPending:
		return target == BillingNoteStatusSubmitted || target == BillingNoteStatusCancelled
	case BillingNoteStatusSubmitted:
		return target == BillingNoteStatusApproved || target == BillingNoteStatusCancelled
	case BillingNoteStatusApproved:
		return target == BillingNoteStatusPaid || target == BillingNoteStatusSubmitted ||
			target == BillingNoteStatusCancelled
	case BillingNoteStatusPaid:
		return target == BillingNoteStatusPending
	}
	return false
}

// BillingNote aggregates a vendor's billed jobs under one reference and
// carries a frozen tax calculation snapshot. The snapshot is computed at
// create/edit time and never recomputed when the vendor's tax settings
// change afterwards.
type BillingNote struct {
	shared.VendorAggregateRoot
	BillingRef       string            `gorm:"type:varchar(50);not null;uniqueIndex" json:"billing_ref"`
	BillingDate      time.Time         `gorm:"not null" json:"billing_date"`
	Subtotal         decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	PriceBeforeVat   decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"price_before_vat"`
	VatAmount        decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"vat_amount"`
	WhtAmount        decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"wht_amount"`
	NetTotal         decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"net_total"`
	VatRateText      string            `gorm:"type:varchar(10);not null" json:"vat_rate_text"`
	WhtRateText      string            `gorm:"type:varchar(10);not null" json:"wht_rate_text"`
	Status           BillingNoteStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Remark           string            `gorm:"type:varchar(1000)" json:"remark"`
	PaymentVoucherID *uuid.UUID        `gorm:"type:uuid;index" json:"payment_voucher_id"`
	PdfURL           string            `gorm:"type:varchar(500)" json:"pdf_url"`
	Jobs             []Job             `gorm:"foreignKey:BillingNoteID" json:"jobs,omitempty"`
}

// TableName returns the table name for GORM
func (BillingNote) TableName() string {
	return "billing_notes"
}

// NewBillingNote creates a pending billing note with its calculation
// snapshot already frozen
func NewBillingNote(vendorID uuid.UUID, billingRef string, billingDate time.Time, calc Calculation, remark string) (*BillingNote, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	if strings.TrimSpace(billingRef) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Billing reference cannot be empty")
	}
	if billingDate.IsZero() {
		billingDate = time.Now()
	}
	note := &BillingNote{
		VendorAggregateRoot: shared.NewVendorAggregateRoot(vendorID),
		BillingRef:          strings.TrimSpace(billingRef),
		BillingDate:         billingDate,
		Status:              BillingNoteStatusPending,
		Remark:              strings.TrimSpace(remark),
	}
	note.ApplyCalculation(calc)
	note.AddDomainEvent(NewBillingNoteCreatedEvent(note))
	return note, nil
}

// ApplyCalculation freezes a new monetary snapshot onto the note
func (n *BillingNote) ApplyCalculation(calc Calculation) {
	n.Subtotal = calc.Subtotal.Round(2)
	n.PriceBeforeVat = calc.PriceBeforeVat
	n.VatAmount = calc.VatAmount
	n.WhtAmount = calc.WhtAmount
	n.NetTotal = calc.NetTotal
	n.VatRateText = calc.VatRateText()
	n.WhtRateText = calc.WhtRateText()
	n.UpdatedAt = time.Now()
}

// HasReceipt is set by the service layer after loading the associated
// receipt; the note itself stores no back-pointer.
// CanEdit reports whether the job set and snapshot may still change
func (n *BillingNote) CanEdit(hasReceipt bool) error {
	if n.Status == BillingNoteStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled billing notes cannot be edited")
	}
	if hasReceipt {
		return shared.NewDomainError("INVALID_STATE", "Billing notes with a receipt cannot be edited")
	}
	return nil
}

// TransitionTo moves the note to the target status via the authoritative
// transition table
func (n *BillingNote) TransitionTo(target BillingNoteStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown billing note status "+string(target))
	}
	if n.Status == target {
		return nil
	}
	if !n.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition billing note from "+string(n.Status)+" to "+string(target))
	}
	n.Status = target
	n.UpdatedAt = time.Now()
	return nil
}

// Submit confirms the note for approval
func (n *BillingNote) Submit() error {
	if err := n.TransitionTo(BillingNoteStatusSubmitted); err != nil {
		return err
	}
	n.AddDomainEvent(NewBillingNoteSubmittedEvent(n))
	return nil
}

// Cancel voids the note. Callers release the linked jobs in the same
// transaction; a note with a receipt must have the receipt removed first.
func (n *BillingNote) Cancel(hasReceipt bool) error {
	if n.Status == BillingNoteStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Billing note is already cancelled")
	}
	if hasReceipt {
		return shared.NewDomainError("INVALID_STATE", "Delete the receipt before cancelling this billing note")
	}
	n.Status = BillingNoteStatusCancelled
	n.UpdatedAt = time.Now()
	n.AddDomainEvent(NewBillingNoteCancelledEvent(n))
	return nil
}

// ApproveInto links the note to a payment voucher and approves it
func (n *BillingNote) ApproveInto(voucherID uuid.UUID) error {
	if n.Status != BillingNoteStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only submitted billing notes can join a payment voucher")
	}
	if n.PaymentVoucherID != nil {
		return shared.NewDomainError("INVALID_STATE", "Billing note is already on a payment voucher")
	}
	n.Status = BillingNoteStatusApproved
	n.PaymentVoucherID = &voucherID
	n.UpdatedAt = time.Now()
	return nil
}

// ReleaseFromVoucher detaches the note from a cancelled voucher and
// returns it to the submitted pool
func (n *BillingNote) ReleaseFromVoucher() {
	n.Status = BillingNoteStatusSubmitted
	n.PaymentVoucherID = nil
	n.UpdatedAt = time.Now()
}

// MarkPaid records receipt issuance
func (n *BillingNote) MarkPaid() error {
	if err := n.TransitionTo(BillingNoteStatusPaid); err != nil {
		return err
	}
	n.AddDomainEvent(NewBillingNotePaidEvent(n))
	return nil
}

// RevertToPending undoes a receipt, returning the note to the start of
// its lifecycle
func (n *BillingNote) RevertToPending() error {
	return n.TransitionTo(BillingNoteStatusPending)
}

// InvalidatePDF clears a stale rendered document pointer after the
// snapshot changed
func (n *BillingNote) InvalidatePDF() {
	n.PdfURL = ""
	n.UpdatedAt = time.Now()
}

// SetPdfURL records where the rendered document was written
func (n *BillingNote) SetPdfURL(url string) {
	n.PdfURL = url
	n.UpdatedAt = time.Now()
}

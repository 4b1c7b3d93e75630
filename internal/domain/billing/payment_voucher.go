package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorbill/backend/internal/domain/shared"
)

// VoucherStatus represents the payment voucher lifecycle state
type VoucherStatus string

const (
	VoucherStatusPending   VoucherStatus = "PENDING"
	VoucherStatusApproved  VoucherStatus = "APPROVED"
	VoucherStatusCancelled VoucherStatus = "CANCELLED"
)

// IsValid checks if the voucher status is known
func (s VoucherStatus) IsValid() bool {
	switch s {
	case VoucherStatusPending, VoucherStatusApproved, VoucherStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of VoucherStatus
func (s VoucherStatus) String() string {
	return string(s)
}

// PaymentVoucher consolidates a vendor's submitted billing notes for
// payment. Its totals are server-side sums of the member notes' frozen
// snapshots, never re-derived from jobs.
type PaymentVoucher struct {
	shared.VendorAggregateRoot
	VoucherRef   string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"voucher_ref"`
	VoucherDate  time.Time       `gorm:"not null" json:"voucher_date"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	VatAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"vat_amount"`
	WhtAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"wht_amount"`
	NetTotal     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_total"`
	Status       VoucherStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Remark       string          `gorm:"type:varchar(1000)" json:"remark"`
	BillingNotes []BillingNote   `gorm:"foreignKey:PaymentVoucherID" json:"billing_notes,omitempty"`
}

// TableName returns the table name for GORM
func (PaymentVoucher) TableName() string {
	return "payment_vouchers"
}

// NewPaymentVoucher creates a voucher over a validated member set. Every
// member must belong to the vendor, be SUBMITTED, and not already sit on
// another voucher; callers enforce this with a count-match check before
// calling.
func NewPaymentVoucher(vendorID uuid.UUID, voucherRef string, voucherDate time.Time, members []BillingNote, remark string) (*PaymentVoucher, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	if strings.TrimSpace(voucherRef) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Voucher reference cannot be empty")
	}
	if len(members) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment voucher must cover at least one billing note")
	}

	subtotal, vat, wht, net := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for i := range members {
		m := &members[i]
		if m.VendorID != vendorID {
			return nil, shared.NewDomainError("OWNERSHIP_VIOLATION", "Billing note "+m.BillingRef+" belongs to another vendor")
		}
		if m.Status != BillingNoteStatusSubmitted {
			return nil, shared.NewDomainError("INVALID_STATE", "Billing note "+m.BillingRef+" is not submitted")
		}
		if m.PaymentVoucherID != nil {
			return nil, shared.NewDomainError("INVALID_STATE", "Billing note "+m.BillingRef+" is already on a payment voucher")
		}
		subtotal = subtotal.Add(m.Subtotal)
		vat = vat.Add(m.VatAmount)
		wht = wht.Add(m.WhtAmount)
		net = net.Add(m.NetTotal)
	}

	if voucherDate.IsZero() {
		voucherDate = time.Now()
	}
	voucher := &PaymentVoucher{
		VendorAggregateRoot: shared.NewVendorAggregateRoot(vendorID),
		VoucherRef:          strings.TrimSpace(voucherRef),
		VoucherDate:         voucherDate,
		Subtotal:            subtotal.Round(2),
		VatAmount:           vat.Round(2),
		WhtAmount:           wht.Round(2),
		NetTotal:            net.Round(2),
		Status:              VoucherStatusPending,
		Remark:              strings.TrimSpace(remark),
		BillingNotes:        members,
	}
	voucher.AddDomainEvent(NewPaymentVoucherCreatedEvent(voucher, len(members)))
	return voucher, nil
}

// MemberIDs returns the IDs of the loaded member billing notes
func (v *PaymentVoucher) MemberIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(v.BillingNotes))
	for i := range v.BillingNotes {
		out[i] = v.BillingNotes[i].ID
	}
	return out
}

// Cancel voids the voucher. Callers release every member billing note
// back to SUBMITTED in the same transaction.
func (v *PaymentVoucher) Cancel() error {
	if v.Status == VoucherStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Payment voucher is already cancelled")
	}
	v.Status = VoucherStatusCancelled
	v.UpdatedAt = time.Now()
	v.AddDomainEvent(NewPaymentVoucherCancelledEvent(v))
	return nil
}

// UpdateStatus sets the voucher status directly. Moving to CANCELLED
// this way still releases the members; the voucher row itself is kept.
func (v *PaymentVoucher) UpdateStatus(target VoucherStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown voucher status "+string(target))
	}
	if v.Status == VoucherStatusCancelled && target != VoucherStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled vouchers cannot be reactivated")
	}
	v.Status = target
	v.UpdatedAt = time.Now()
	return nil
}

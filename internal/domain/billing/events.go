package billing

import (
	"github.com/vendorbill/backend/internal/domain/shared"
)

// Event types emitted by the billing aggregates
const (
	EventBillingNoteCreated      = "billing.note.created"
	EventBillingNoteSubmitted    = "billing.note.submitted"
	EventBillingNoteCancelled    = "billing.note.cancelled"
	EventBillingNotePaid         = "billing.note.paid"
	EventReceiptIssued           = "billing.receipt.issued"
	EventPaymentVoucherCreated   = "billing.voucher.created"
	EventPaymentVoucherCancelled = "billing.voucher.cancelled"
)

// BillingNoteCreatedEvent fires when a billing note is created with its
// frozen calculation snapshot
type BillingNoteCreatedEvent struct {
	shared.BaseDomainEvent
	BillingRef string `json:"billing_ref"`
	NetTotal   string `json:"net_total"`
}

// NewBillingNoteCreatedEvent creates a BillingNoteCreatedEvent
func NewBillingNoteCreatedEvent(note *BillingNote) *BillingNoteCreatedEvent {
	return &BillingNoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBillingNoteCreated, "BillingNote", note.ID, note.VendorID),
		BillingRef:      note.BillingRef,
		NetTotal:        note.NetTotal.StringFixed(2),
	}
}

// BillingNoteSubmittedEvent fires when a vendor confirms a note
type BillingNoteSubmittedEvent struct {
	shared.BaseDomainEvent
	BillingRef string `json:"billing_ref"`
}

// NewBillingNoteSubmittedEvent creates a BillingNoteSubmittedEvent
func NewBillingNoteSubmittedEvent(note *BillingNote) *BillingNoteSubmittedEvent {
	return &BillingNoteSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBillingNoteSubmitted, "BillingNote", note.ID, note.VendorID),
		BillingRef:      note.BillingRef,
	}
}

// BillingNoteCancelledEvent fires when a note is voided and its jobs
// released
type BillingNoteCancelledEvent struct {
	shared.BaseDomainEvent
	BillingRef string `json:"billing_ref"`
}

// NewBillingNoteCancelledEvent creates a BillingNoteCancelledEvent
func NewBillingNoteCancelledEvent(note *BillingNote) *BillingNoteCancelledEvent {
	return &BillingNoteCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBillingNoteCancelled, "BillingNote", note.ID, note.VendorID),
		BillingRef:      note.BillingRef,
	}
}

// BillingNotePaidEvent fires when receipt issuance marks a note paid
type BillingNotePaidEvent struct {
	shared.BaseDomainEvent
	BillingRef string `json:"billing_ref"`
}

// NewBillingNotePaidEvent creates a BillingNotePaidEvent
func NewBillingNotePaidEvent(note *BillingNote) *BillingNotePaidEvent {
	return &BillingNotePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBillingNotePaid, "BillingNote", note.ID, note.VendorID),
		BillingRef:      note.BillingRef,
	}
}

// ReceiptIssuedEvent fires when a receipt is created
type ReceiptIssuedEvent struct {
	shared.BaseDomainEvent
	ReceiptRef string `json:"receipt_ref"`
}

// NewReceiptIssuedEvent creates a ReceiptIssuedEvent
func NewReceiptIssuedEvent(receipt *Receipt) *ReceiptIssuedEvent {
	return &ReceiptIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventReceiptIssued, "Receipt", receipt.ID, receipt.VendorID),
		ReceiptRef:      receipt.ReceiptRef,
	}
}

// PaymentVoucherCreatedEvent fires when submitted notes are consolidated
type PaymentVoucherCreatedEvent struct {
	shared.BaseDomainEvent
	VoucherRef  string `json:"voucher_ref"`
	MemberCount int    `json:"member_count"`
}

// NewPaymentVoucherCreatedEvent creates a PaymentVoucherCreatedEvent
func NewPaymentVoucherCreatedEvent(voucher *PaymentVoucher, memberCount int) *PaymentVoucherCreatedEvent {
	return &PaymentVoucherCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentVoucherCreated, "PaymentVoucher", voucher.ID, voucher.VendorID),
		VoucherRef:      voucher.VoucherRef,
		MemberCount:     memberCount,
	}
}

// PaymentVoucherCancelledEvent fires when a voucher is voided and its
// members released
type PaymentVoucherCancelledEvent struct {
	shared.BaseDomainEvent
	VoucherRef string `json:"voucher_ref"`
}

// NewPaymentVoucherCancelledEvent creates a PaymentVoucherCancelledEvent
func NewPaymentVoucherCancelledEvent(voucher *PaymentVoucher) *PaymentVoucherCancelledEvent {
	return &PaymentVoucherCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPaymentVoucherCancelled, "PaymentVoucher", voucher.ID, voucher.VendorID),
		VoucherRef:      voucher.VoucherRef,
	}
}

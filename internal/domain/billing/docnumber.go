package billing

import (
	"fmt"
	"time"

	"github.com/vendorbill/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentType identifies which document family a numbering rule or
// sequence belongs to
type DocumentType string

const (
	DocumentTypeBilling        DocumentType = "BILLING"
	DocumentTypeReceipt        DocumentType = "RECEIPT"
	DocumentTypePaymentVoucher DocumentType = "PAYMENT_VOUCHER"
)

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeBilling, DocumentTypeReceipt, DocumentTypePaymentVoucher:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// ResetPeriod controls when the running number restarts at 1
type ResetPeriod string

const (
	ResetDaily   ResetPeriod = "DAILY"
	ResetMonthly ResetPeriod = "MONTHLY"
	ResetYearly  ResetPeriod = "YEARLY"
	ResetNever   ResetPeriod = "NEVER"
)

// IsValid checks if the reset period is known
func (p ResetPeriod) IsValid() bool {
	switch p {
	case ResetDaily, ResetMonthly, ResetYearly, ResetNever:
		return true
	}
	return false
}

// DateFormat controls the date portion embedded in a document number
type DateFormat string

const (
	DateFormatYYYYMMDD DateFormat = "YYYYMMDD"
	DateFormatYYYYMM   DateFormat = "YYYYMM"
	DateFormatYYMM     DateFormat = "YYMM"
)

// IsValid checks if the date format is known
func (f DateFormat) IsValid() bool {
	switch f {
	case DateFormatYYYYMMDD, DateFormatYYYYMM, DateFormatYYMM:
		return true
	}
	return false
}

// layout returns the time layout for the date format
func (f DateFormat) layout() string {
	switch f {
	case DateFormatYYYYMM:
		return "200601"
	case DateFormatYYMM:
		return "0601"
	default:
		return "20060102"
	}
}

// periodKeyAll is the constant period key for sequences that never reset
const periodKeyAll = "ALL"

const (
	minRunningDigits = 2
	maxRunningDigits = 6
)

// NumberRule describes how a document number is rendered and when its
// sequence resets. Preview and allocation share this formatting so a
// previewed number always matches the one eventually issued.
type NumberRule struct {
	Prefix        string
	DateFormat    DateFormat
	RunningDigits int
	ResetPeriod   ResetPeriod
}

// Validate checks rule fields against the allowed ranges
func (r NumberRule) Validate() error {
	if !r.DateFormat.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown date format %q", r.DateFormat))
	}
	if !r.ResetPeriod.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown reset period %q", r.ResetPeriod))
	}
	if r.RunningDigits < minRunningDigits || r.RunningDigits > maxRunningDigits {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Running digits must be between %d and %d", minRunningDigits, maxRunningDigits))
	}
	return nil
}

// PeriodKey derives the sequence partition key for an allocation date
func (r NumberRule) PeriodKey(date time.Time) string {
	switch r.ResetPeriod {
	case ResetDaily:
		return date.Format("20060102")
	case ResetMonthly:
		return date.Format("200601")
	case ResetYearly:
		return date.Format("2006")
	default:
		return periodKeyAll
	}
}

// Format renders a document number for the given date and running number
func (r NumberRule) Format(date time.Time, running int) string {
	return fmt.Sprintf("%s%s%0*d", r.Prefix, date.Format(r.DateFormat.layout()), r.RunningDigits, running)
}

// PaymentVoucherRule is the fixed numbering rule for payment vouchers:
// PV + YYYYMMDD + 3 running digits, resetting daily. Vouchers are not
// configurable per vendor.
func PaymentVoucherRule() NumberRule {
	return NumberRule{
		Prefix:        "PV",
		DateFormat:    DateFormatYYYYMMDD,
		RunningDigits: 3,
		ResetPeriod:   ResetDaily,
	}
}

// DefaultPreviewRule is the rule used for number previews when a vendor
// has no configuration for the document type
func DefaultPreviewRule(t DocumentType) NumberRule {
	prefix := "B"
	if t == DocumentTypeReceipt {
		prefix = "R"
	}
	if t == DocumentTypePaymentVoucher {
		return PaymentVoucherRule()
	}
	return NumberRule{
		Prefix:        prefix,
		DateFormat:    DateFormatYYYYMMDD,
		RunningDigits: 3,
		ResetPeriod:   ResetDaily,
	}
}

// Legacy reference prefixes used when auto-numbering is disabled
const (
	FallbackBillingPrefix = "VBS"
	FallbackReceiptPrefix = "RE"
)

// FallbackRef renders a legacy-scheme reference, e.g. "VBS2025-0007"
func FallbackRef(prefix string, year, seq int) string {
	return fmt.Sprintf("%s%d-%04d", prefix, year, seq)
}

// DocumentNumberConfig is the per-vendor, per-document-type numbering
// configuration. Absence of a config (or Enabled=false) means the
// document falls back to the legacy reference scheme.
type DocumentNumberConfig struct {
	ID            uuid.UUID
	VendorID      uuid.UUID
	DocumentType  DocumentType
	Enabled       bool
	Prefix        string
	DateFormat    DateFormat
	RunningDigits int
	ResetPeriod   ResetPeriod
	UpdatedAt     time.Time
}

// NewDocumentNumberConfig creates a validated numbering configuration
func NewDocumentNumberConfig(vendorID uuid.UUID, docType DocumentType, enabled bool, rule NumberRule) (*DocumentNumberConfig, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	if !docType.IsValid() || docType == DocumentTypePaymentVoucher {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Document type %q is not configurable", docType))
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return &DocumentNumberConfig{
		ID:            uuid.New(),
		VendorID:      vendorID,
		DocumentType:  docType,
		Enabled:       enabled,
		Prefix:        rule.Prefix,
		DateFormat:    rule.DateFormat,
		RunningDigits: rule.RunningDigits,
		ResetPeriod:   rule.ResetPeriod,
		UpdatedAt:     time.Now(),
	}, nil
}

// Rule returns the numbering rule carried by the configuration
func (c *DocumentNumberConfig) Rule() NumberRule {
	return NumberRule{
		Prefix:        c.Prefix,
		DateFormat:    c.DateFormat,
		RunningDigits: c.RunningDigits,
		ResetPeriod:   c.ResetPeriod,
	}
}

// DocumentNumberSequence is the persistent running counter for one
// vendor, document type and period. The (VendorID, DocumentType,
// PeriodKey) triple is the only contended shared state in the system;
// increments must be a single atomic upsert.
type DocumentNumberSequence struct {
	VendorID     uuid.UUID
	DocumentType DocumentType
	PeriodKey    string
	LastNumber   int
}

package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorbill/backend/internal/domain/billing"
)

// =============================================================================
// Job DTOs
// =============================================================================

// JobItemRequest represents one expense line in a job request
type JobItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// CreateJobRequest represents a request to create a job
type CreateJobRequest struct {
	VendorID      *uuid.UUID       `json:"vendor_id"`
	Description   string           `json:"description" binding:"required,min=1,max=500"`
	RefInvoiceNo  string           `json:"ref_invoice_no" binding:"max=100"`
	ContainerNo   string           `json:"container_no" binding:"max=100"`
	TruckPlate    string           `json:"truck_plate" binding:"max=50"`
	ClearanceDate time.Time        `json:"clearance_date" binding:"required"`
	DeclarationNo string           `json:"declaration_no" binding:"max=100"`
	Items         []JobItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateJobRequest represents a request to update a job. The item list
// replaces the job's entire collection.
type UpdateJobRequest struct {
	Description   string           `json:"description" binding:"required,min=1,max=500"`
	RefInvoiceNo  string           `json:"ref_invoice_no" binding:"max=100"`
	ContainerNo   string           `json:"container_no" binding:"max=100"`
	TruckPlate    string           `json:"truck_plate" binding:"max=50"`
	ClearanceDate time.Time        `json:"clearance_date" binding:"required"`
	DeclarationNo string           `json:"declaration_no" binding:"max=100"`
	Items         []JobItemRequest `json:"items" binding:"required,min=1,dive"`
}

// JobItemResponse represents a job item in API responses
type JobItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
}

// JobResponse represents a job in API responses
type JobResponse struct {
	ID            uuid.UUID         `json:"id"`
	VendorID      uuid.UUID         `json:"vendor_id"`
	Description   string            `json:"description"`
	RefInvoiceNo  string            `json:"ref_invoice_no"`
	ContainerNo   string            `json:"container_no"`
	TruckPlate    string            `json:"truck_plate"`
	ClearanceDate time.Time         `json:"clearance_date"`
	DeclarationNo string            `json:"declaration_no"`
	Status        string            `json:"status"`
	BillingNoteID *uuid.UUID        `json:"billing_note_id"`
	TotalAmount   string            `json:"total_amount"`
	Items         []JobItemResponse `json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ToJobResponse converts a Job domain entity to a JobResponse
func ToJobResponse(job *billing.Job) *JobResponse {
	items := make([]JobItemResponse, len(job.Items))
	for i, item := range job.Items {
		items[i] = JobItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Amount:      item.Amount.StringFixed(2),
		}
	}
	return &JobResponse{
		ID:            job.ID,
		VendorID:      job.VendorID,
		Description:   job.Description,
		RefInvoiceNo:  job.RefInvoiceNo,
		ContainerNo:   job.ContainerNo,
		TruckPlate:    job.TruckPlate,
		ClearanceDate: job.ClearanceDate,
		DeclarationNo: job.DeclarationNo,
		Status:        job.Status.String(),
		BillingNoteID: job.BillingNoteID,
		TotalAmount:   job.TotalAmount().StringFixed(2),
		Items:         items,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}

func (r JobItemRequest) toDraft() billing.JobItemDraft {
	return billing.JobItemDraft{Description: r.Description, Amount: r.Amount}
}

func toJobDraft(description, refInvoiceNo, containerNo, truckPlate, declarationNo string, clearanceDate time.Time, items []JobItemRequest) billing.JobDraft {
	drafts := make([]billing.JobItemDraft, len(items))
	for i, item := range items {
		drafts[i] = item.toDraft()
	}
	return billing.JobDraft{
		Description:   description,
		RefInvoiceNo:  refInvoiceNo,
		ContainerNo:   containerNo,
		TruckPlate:    truckPlate,
		ClearanceDate: clearanceDate,
		DeclarationNo: declarationNo,
		Items:         drafts,
	}
}

// =============================================================================
// Calculation DTOs
// =============================================================================

// CalculatePreviewRequest represents a read-only tax calculation request
type CalculatePreviewRequest struct {
	VendorID           *uuid.UUID  `json:"vendor_id"`
	JobIDs             []uuid.UUID `json:"job_ids" binding:"required,min=1"`
	CalculateBeforeVat *bool       `json:"calculate_before_vat"`
}

// CalculationResponse represents a tax calculation breakdown
type CalculationResponse struct {
	Subtotal       string `json:"subtotal"`
	PriceBeforeVat string `json:"price_before_vat"`
	VatAmount      string `json:"vat_amount"`
	WhtAmount      string `json:"wht_amount"`
	NetTotal       string `json:"net_total"`
	VatRateText    string `json:"vat_rate_text"`
	WhtRateText    string `json:"wht_rate_text"`
}

// ToCalculationResponse converts a Calculation to a CalculationResponse
func ToCalculationResponse(calc billing.Calculation) *CalculationResponse {
	return &CalculationResponse{
		Subtotal:       calc.Subtotal.StringFixed(2),
		PriceBeforeVat: calc.PriceBeforeVat.StringFixed(2),
		VatAmount:      calc.VatAmount.StringFixed(2),
		WhtAmount:      calc.WhtAmount.StringFixed(2),
		NetTotal:       calc.NetTotal.StringFixed(2),
		VatRateText:    calc.VatRateText(),
		WhtRateText:    calc.WhtRateText(),
	}
}

// =============================================================================
// Billing note DTOs
// =============================================================================

// CreateBillingNoteRequest represents a request to create a billing note
type CreateBillingNoteRequest struct {
	VendorID           *uuid.UUID  `json:"vendor_id"`
	JobIDs             []uuid.UUID `json:"job_ids" binding:"required,min=1"`
	BillingRef         string      `json:"billing_ref" binding:"max=50"`
	BillingDate        time.Time   `json:"billing_date"`
	CalculateBeforeVat *bool       `json:"calculate_before_vat"`
	Remark             string      `json:"remark" binding:"max=1000"`
}

// EditBillingNoteRequest represents a request to replace a billing
// note's job set
type EditBillingNoteRequest struct {
	JobIDs             []uuid.UUID `json:"job_ids" binding:"required,min=1"`
	CalculateBeforeVat *bool       `json:"calculate_before_vat"`
	Remark             *string     `json:"remark" binding:"omitempty,max=1000"`
}

// UpdateBillingNoteStatusRequest represents a direct status change
type UpdateBillingNoteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BillingNoteResponse represents a billing note in API responses
type BillingNoteResponse struct {
	ID               uuid.UUID     `json:"id"`
	VendorID         uuid.UUID     `json:"vendor_id"`
	BillingRef       string        `json:"billing_ref"`
	BillingDate      time.Time     `json:"billing_date"`
	Subtotal         string        `json:"subtotal"`
	PriceBeforeVat   string        `json:"price_before_vat"`
	VatAmount        string        `json:"vat_amount"`
	WhtAmount        string        `json:"wht_amount"`
	NetTotal         string        `json:"net_total"`
	VatRateText      string        `json:"vat_rate_text"`
	WhtRateText      string        `json:"wht_rate_text"`
	Status           string        `json:"status"`
	Remark           string        `json:"remark"`
	PaymentVoucherID *uuid.UUID    `json:"payment_voucher_id"`
	PdfURL           string        `json:"pdf_url"`
	Jobs             []JobResponse `json:"jobs,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// ToBillingNoteResponse converts a BillingNote domain entity to a
// BillingNoteResponse
func ToBillingNoteResponse(note *billing.BillingNote) *BillingNoteResponse {
	var jobs []JobResponse
	for i := range note.Jobs {
		jobs = append(jobs, *ToJobResponse(&note.Jobs[i]))
	}
	return &BillingNoteResponse{
		ID:               note.ID,
		VendorID:         note.VendorID,
		BillingRef:       note.BillingRef,
		BillingDate:      note.BillingDate,
		Subtotal:         note.Subtotal.StringFixed(2),
		PriceBeforeVat:   note.PriceBeforeVat.StringFixed(2),
		VatAmount:        note.VatAmount.StringFixed(2),
		WhtAmount:        note.WhtAmount.StringFixed(2),
		NetTotal:         note.NetTotal.StringFixed(2),
		VatRateText:      note.VatRateText,
		WhtRateText:      note.WhtRateText,
		Status:           note.Status.String(),
		Remark:           note.Remark,
		PaymentVoucherID: note.PaymentVoucherID,
		PdfURL:           note.PdfURL,
		Jobs:             jobs,
		CreatedAt:        note.CreatedAt,
		UpdatedAt:        note.UpdatedAt,
	}
}

// =============================================================================
// Receipt DTOs
// =============================================================================

// CreateReceiptRequest represents a request to issue a receipt
type CreateReceiptRequest struct {
	BillingNoteID uuid.UUID `json:"billing_note_id" binding:"required"`
	ReceiptDate   time.Time `json:"receipt_date"`
}

// UpdateReceiptStatusRequest represents an admin receipt status change
type UpdateReceiptStatusRequest struct {
	Status        string `json:"status" binding:"required,oneof=PENDING PAID"`
	RevertBilling bool   `json:"revert_billing"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID            uuid.UUID `json:"id"`
	VendorID      uuid.UUID `json:"vendor_id"`
	ReceiptRef    string    `json:"receipt_ref"`
	BillingNoteID uuid.UUID `json:"billing_note_id"`
	ReceiptDate   time.Time `json:"receipt_date"`
	Status        string    `json:"status"`
	PdfURL        string    `json:"pdf_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToReceiptResponse converts a Receipt domain entity to a ReceiptResponse
func ToReceiptResponse(receipt *billing.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		ID:            receipt.ID,
		VendorID:      receipt.VendorID,
		ReceiptRef:    receipt.ReceiptRef,
		BillingNoteID: receipt.BillingNoteID,
		ReceiptDate:   receipt.ReceiptDate,
		Status:        receipt.Status.String(),
		PdfURL:        receipt.PdfURL,
		CreatedAt:     receipt.CreatedAt,
		UpdatedAt:     receipt.UpdatedAt,
	}
}

// =============================================================================
// Payment voucher DTOs
// =============================================================================

// CreatePaymentVoucherRequest represents a request to consolidate
// submitted billing notes into a voucher
type CreatePaymentVoucherRequest struct {
	VendorID       uuid.UUID   `json:"vendor_id" binding:"required"`
	BillingNoteIDs []uuid.UUID `json:"billing_note_ids" binding:"required,min=1"`
	VoucherDate    time.Time   `json:"voucher_date"`
	Remark         string      `json:"remark" binding:"max=1000"`
}

// UpdateVoucherStatusRequest represents an admin voucher status change
type UpdateVoucherStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING APPROVED CANCELLED"`
}

// PaymentVoucherResponse represents a payment voucher in API responses
type PaymentVoucherResponse struct {
	ID           uuid.UUID             `json:"id"`
	VendorID     uuid.UUID             `json:"vendor_id"`
	VoucherRef   string                `json:"voucher_ref"`
	VoucherDate  time.Time             `json:"voucher_date"`
	Subtotal     string                `json:"subtotal"`
	VatAmount    string                `json:"vat_amount"`
	WhtAmount    string                `json:"wht_amount"`
	NetTotal     string                `json:"net_total"`
	Status       string                `json:"status"`
	Remark       string                `json:"remark"`
	BillingNotes []BillingNoteResponse `json:"billing_notes,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToPaymentVoucherResponse converts a PaymentVoucher domain entity to a
// PaymentVoucherResponse
func ToPaymentVoucherResponse(voucher *billing.PaymentVoucher) *PaymentVoucherResponse {
	var notes []BillingNoteResponse
	for i := range voucher.BillingNotes {
		notes = append(notes, *ToBillingNoteResponse(&voucher.BillingNotes[i]))
	}
	return &PaymentVoucherResponse{
		ID:           voucher.ID,
		VendorID:     voucher.VendorID,
		VoucherRef:   voucher.VoucherRef,
		VoucherDate:  voucher.VoucherDate,
		Subtotal:     voucher.Subtotal.StringFixed(2),
		VatAmount:    voucher.VatAmount.StringFixed(2),
		WhtAmount:    voucher.WhtAmount.StringFixed(2),
		NetTotal:     voucher.NetTotal.StringFixed(2),
		Status:       voucher.Status.String(),
		Remark:       voucher.Remark,
		BillingNotes: notes,
		CreatedAt:    voucher.CreatedAt,
		UpdatedAt:    voucher.UpdatedAt,
	}
}

// =============================================================================
// Document number DTOs
// =============================================================================

// UpsertDocNumberConfigRequest represents a numbering configuration write
type UpsertDocNumberConfigRequest struct {
	VendorID      *uuid.UUID `json:"vendor_id"`
	DocumentType  string     `json:"document_type" binding:"required,oneof=BILLING RECEIPT"`
	Enabled       bool       `json:"enabled"`
	Prefix        string     `json:"prefix" binding:"max=10"`
	DateFormat    string     `json:"date_format" binding:"required,oneof=YYYYMMDD YYYYMM YYMM"`
	RunningDigits int        `json:"running_digits" binding:"required,min=2,max=6"`
	ResetPeriod   string     `json:"reset_period" binding:"required,oneof=DAILY MONTHLY YEARLY NEVER"`
}

// DocNumberConfigResponse represents a numbering configuration
type DocNumberConfigResponse struct {
	VendorID      uuid.UUID `json:"vendor_id"`
	DocumentType  string    `json:"document_type"`
	Enabled       bool      `json:"enabled"`
	Prefix        string    `json:"prefix"`
	DateFormat    string    `json:"date_format"`
	RunningDigits int       `json:"running_digits"`
	ResetPeriod   string    `json:"reset_period"`
}

// ToDocNumberConfigResponse converts a DocumentNumberConfig to its
// response form
func ToDocNumberConfigResponse(cfg *billing.DocumentNumberConfig) *DocNumberConfigResponse {
	return &DocNumberConfigResponse{
		VendorID:      cfg.VendorID,
		DocumentType:  cfg.DocumentType.String(),
		Enabled:       cfg.Enabled,
		Prefix:        cfg.Prefix,
		DateFormat:    string(cfg.DateFormat),
		RunningDigits: cfg.RunningDigits,
		ResetPeriod:   string(cfg.ResetPeriod),
	}
}

// DocNumberPreviewResponse represents the next number a document type
// would receive, without consuming it
type DocNumberPreviewResponse struct {
	DocumentType string `json:"document_type"`
	Preview      string `json:"preview"`
	Configured   bool   `json:"configured"`
}

// =============================================================================
// Tax settings DTOs
// =============================================================================

// UpsertTaxSettingsRequest represents a vendor tax settings write
type UpsertTaxSettingsRequest struct {
	VendorID           *uuid.UUID      `json:"vendor_id"`
	VatRate            decimal.Decimal `json:"vat_rate" binding:"required"`
	WhtRate            decimal.Decimal `json:"wht_rate" binding:"required"`
	CalculateBeforeVat bool            `json:"calculate_before_vat"`
}

// TaxSettingsResponse represents effective vendor tax settings
type TaxSettingsResponse struct {
	VendorID           uuid.UUID `json:"vendor_id"`
	VatRate            string    `json:"vat_rate"`
	WhtRate            string    `json:"wht_rate"`
	CalculateBeforeVat bool      `json:"calculate_before_vat"`
	IsDefault          bool      `json:"is_default"`
}

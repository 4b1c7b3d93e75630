package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorbill/backend/internal/domain/shared"
)

// JobStatus represents the job lifecycle state
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusBilled  JobStatus = "BILLED"
)

// IsValid checks if the job status is known
func (s JobStatus) IsValid() bool {
	return s == JobStatusPending || s == JobStatusBilled
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// JobItem is a single expense line owned by a job. Items live and die
// with their job; updates replace the whole collection.
type JobItem struct {
	shared.BaseEntity
	JobID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"job_id"`
	Description string          `gorm:"type:varchar(500);not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
}

// TableName returns the table name for GORM
func (JobItem) TableName() string {
	return "job_items"
}

// JobItemDraft is the caller-supplied input for one line item
type JobItemDraft struct {
	Description string
	Amount      decimal.Decimal
}

// JobDraft is the caller-supplied input for creating or updating a job
type JobDraft struct {
	Description   string
	RefInvoiceNo  string
	ContainerNo   string
	TruckPlate    string
	ClearanceDate time.Time
	DeclarationNo string
	Items         []JobItemDraft
}

// Job is a unit of billable work submitted by a vendor. A job is BILLED
// exactly when it is linked to a billing note; the link and the status
// always change together.
type Job struct {
	shared.VendorAggregateRoot
	Description   string     `gorm:"type:varchar(500);not null" json:"description"`
	RefInvoiceNo  string     `gorm:"type:varchar(100)" json:"ref_invoice_no"`
	ContainerNo   string     `gorm:"type:varchar(100)" json:"container_no"`
	TruckPlate    string     `gorm:"type:varchar(50)" json:"truck_plate"`
	ClearanceDate time.Time  `gorm:"not null" json:"clearance_date"`
	DeclarationNo string     `gorm:"type:varchar(100)" json:"declaration_no"`
	Status        JobStatus  `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	BillingNoteID *uuid.UUID `gorm:"type:uuid;index" json:"billing_note_id"`
	Items         []JobItem  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName returns the table name for GORM
func (Job) TableName() string {
	return "jobs"
}

// NewJob creates a pending job from a draft
func NewJob(vendorID uuid.UUID, draft JobDraft) (*Job, error) {
	if err := validateJobDraft(draft); err != nil {
		return nil, err
	}
	job := &Job{
		VendorAggregateRoot: shared.NewVendorAggregateRoot(vendorID),
		Status:              JobStatusPending,
	}
	job.applyDraft(draft)
	return job, nil
}

func validateJobDraft(draft JobDraft) error {
	if strings.TrimSpace(draft.Description) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Job description cannot be empty")
	}
	if draft.ClearanceDate.IsZero() {
		return shared.NewDomainError("VALIDATION_ERROR", "Clearance date is required")
	}
	if len(draft.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Job must have at least one item")
	}
	for _, item := range draft.Items {
		if strings.TrimSpace(item.Description) == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "Item description cannot be empty")
		}
		if item.Amount.IsNegative() {
			return shared.NewDomainError("VALIDATION_ERROR", "Item amount cannot be negative")
		}
	}
	return nil
}

func (j *Job) applyDraft(draft JobDraft) {
	j.Description = strings.TrimSpace(draft.Description)
	j.RefInvoiceNo = strings.TrimSpace(draft.RefInvoiceNo)
	j.ContainerNo = strings.TrimSpace(draft.ContainerNo)
	j.TruckPlate = strings.TrimSpace(draft.TruckPlate)
	j.ClearanceDate = draft.ClearanceDate
	j.DeclarationNo = strings.TrimSpace(draft.DeclarationNo)

	items := make([]JobItem, 0, len(draft.Items))
	for _, d := range draft.Items {
		items = append(items, JobItem{
			BaseEntity:  shared.NewBaseEntity(),
			JobID:       j.ID,
			Description: strings.TrimSpace(d.Description),
			Amount:      d.Amount,
		})
	}
	j.Items = items
	j.UpdatedAt = time.Now()
}

// TotalAmount is derived from the items, never stored
func (j *Job) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range j.Items {
		total = total.Add(item.Amount)
	}
	return total
}

// ItemAmounts returns the line amounts in item order
func (j *Job) ItemAmounts() []decimal.Decimal {
	out := make([]decimal.Decimal, len(j.Items))
	for i, item := range j.Items {
		out[i] = item.Amount
	}
	return out
}

// CanModify reports whether the job may be edited or deleted directly.
// Billed jobs can only change through their billing note.
func (j *Job) CanModify() bool {
	return j.Status == JobStatusPending
}

// Update replaces the job's fields and entire item collection
func (j *Job) Update(draft JobDraft) error {
	if !j.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Billed jobs can only be changed through their billing note")
	}
	if err := validateJobDraft(draft); err != nil {
		return err
	}
	j.applyDraft(draft)
	return nil
}

// AttachTo links the job to a billing note and marks it billed
func (j *Job) AttachTo(billingNoteID uuid.UUID) error {
	if j.Status != JobStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending jobs can be attached to a billing note")
	}
	j.Status = JobStatusBilled
	j.BillingNoteID = &billingNoteID
	j.UpdatedAt = time.Now()
	return nil
}

// Release detaches the job from its billing note and returns it to the
// pending pool
func (j *Job) Release() {
	j.Status = JobStatusPending
	j.BillingNoteID = nil
	j.UpdatedAt = time.Now()
}

// IsAttachedTo reports whether the job is billed under the given note
func (j *Job) IsAttachedTo(billingNoteID uuid.UUID) bool {
	return j.Status == JobStatusBilled && j.BillingNoteID != nil && *j.BillingNoteID == billingNoteID
}

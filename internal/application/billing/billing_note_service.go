package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/identity"
	"github.com/vendorbill/backend/internal/domain/shared"
)

// BillingNoteService handles billing note business operations: creation
// from a job set, job-set edits, cancellation, and status changes. All
// multi-entity writes go through repository transactions.
type BillingNoteService struct {
	noteRepo     billing.BillingNoteRepository
	jobRepo      billing.JobRepository
	receiptRepo  billing.ReceiptRepository
	settingsRepo billing.VendorTaxSettingsRepository
	numberSvc    *DocumentNumberService
	clock        billing.Clock
	logger       *zap.Logger
}

// NewBillingNoteService creates a new BillingNoteService
func NewBillingNoteService(
	noteRepo billing.BillingNoteRepository,
	jobRepo billing.JobRepository,
	receiptRepo billing.ReceiptRepository,
	settingsRepo billing.VendorTaxSettingsRepository,
	numberSvc *DocumentNumberService,
	clock billing.Clock,
	logger *zap.Logger,
) *BillingNoteService {
	if clock == nil {
		clock = billing.SystemClock{}
	}
	return &BillingNoteService{
		noteRepo:     noteRepo,
		jobRepo:      jobRepo,
		receiptRepo:  receiptRepo,
		settingsRepo: settingsRepo,
		numberSvc:    numberSvc,
		clock:        clock,
		logger:       logger,
	}
}

// CalculatePreview runs the tax calculator over a job set without
// persisting anything. Jobs of any status qualify.
func (s *BillingNoteService) CalculatePreview(ctx context.Context, principal identity.Principal, req CalculatePreviewRequest) (*CalculationResponse, error) {
	vendorID, err := principal.ResolveVendorID(req.VendorID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobRepo.FindByIDs(ctx, vendorID, req.JobIDs)
	if err != nil {
		return nil, err
	}
	if len(jobs) != len(req.JobIDs) {
		return nil, shared.NewDomainError("OWNERSHIP_VIOLATION", "Some jobs were not found for this vendor")
	}
	calc, err := s.calculate(ctx, vendorID, jobs, req.CalculateBeforeVat)
	if err != nil {
		return nil, err
	}
	return ToCalculationResponse(calc), nil
}

// Create builds a billing note from a set of pending jobs. The note and
// the job linkage are written in one transaction.
func (s *BillingNoteService) Create(ctx context.Context, principal identity.Principal, req CreateBillingNoteRequest) (*BillingNoteResponse, error) {
	vendorID, err := principal.ResolveVendorID(req.VendorID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.FindByIDs(ctx, vendorID, req.JobIDs)
	if err != nil {
		return nil, err
	}
	if len(jobs) != len(req.JobIDs) {
		return nil, shared.NewDomainError("OWNERSHIP_VIOLATION", "Some jobs were not found for this vendor")
	}
	for i := range jobs {
		if jobs[i].Status != billing.JobStatusPending {
			return nil, shared.NewDomainError("INVALID_STATE", "Job "+jobs[i].Description+" is already billed")
		}
	}

	calc, err := s.calculate(ctx, vendorID, jobs, req.CalculateBeforeVat)
	if err != nil {
		return nil, err
	}

	ref, err := s.resolveBillingRef(ctx, vendorID, req.BillingRef)
	if err != nil {
		return nil, err
	}

	note, err := billing.NewBillingNote(vendorID, ref, req.BillingDate, calc, req.Remark)
	if err != nil {
		return nil, err
	}
	if principal.IsPrivileged() {
		createdBy := principal.UserID
		note.CreatedBy = &createdBy
	}

	if err := s.noteRepo.CreateWithJobs(ctx, note, req.JobIDs); err != nil {
		return nil, err
	}
	s.logger.Info("billing note created",
		zap.String("billing_ref", note.BillingRef),
		zap.String("vendor_id", vendorID.String()),
		zap.Int("job_count", len(req.JobIDs)),
		zap.String("net_total", note.NetTotal.StringFixed(2)))
	drainEvents(s.logger, note)

	note.Jobs = jobs
	return ToBillingNoteResponse(note), nil
}

// Get returns a single billing note scoped to the caller
func (s *BillingNoteService) Get(ctx context.Context, principal identity.Principal, id uuid.UUID) (*BillingNoteResponse, error) {
	note, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return ToBillingNoteResponse(note), nil
}

// List returns billing notes for a vendor, optionally filtered by status
func (s *BillingNoteService) List(ctx context.Context, principal identity.Principal, requestedVendor *uuid.UUID, status *billing.BillingNoteStatus, filter shared.Filter) (*shared.Paginated[BillingNoteResponse], error) {
	vendorID, err := principal.ResolveVendorID(requestedVendor)
	if err != nil {
		return nil, err
	}
	page, err := s.noteRepo.List(ctx, billing.BillingNoteFilter{
		Filter:   filter,
		VendorID: vendorID,
		Status:   status,
	})
	if err != nil {
		return nil, err
	}
	items := make([]BillingNoteResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *ToBillingNoteResponse(&page.Items[i])
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Edit replaces a billing note's job set and recomputes its snapshot.
// Jobs leaving the set are released, jobs entering must be PENDING or
// already on this note. The whole swap is one transaction.
func (s *BillingNoteService) Edit(ctx context.Context, principal identity.Principal, id uuid.UUID, req EditBillingNoteRequest) (*BillingNoteResponse, error) {
	note, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	hasReceipt, err := s.hasReceipt(ctx, note.ID)
	if err != nil {
		return nil, err
	}
	if err := note.CanEdit(hasReceipt); err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.FindByIDs(ctx, note.VendorID, req.JobIDs)
	if err != nil {
		return nil, err
	}
	if len(jobs) != len(req.JobIDs) {
		return nil, shared.NewDomainError("OWNERSHIP_VIOLATION", "Some jobs were not found for this vendor")
	}
	for i := range jobs {
		j := &jobs[i]
		if j.Status == billing.JobStatusPending || j.IsAttachedTo(note.ID) {
			continue
		}
		return nil, shared.NewDomainError("INVALID_STATE", "Job "+j.Description+" is billed under another billing note")
	}

	calc, err := s.calculate(ctx, note.VendorID, jobs, req.CalculateBeforeVat)
	if err != nil {
		return nil, err
	}
	note.ApplyCalculation(calc)
	if req.Remark != nil {
		note.Remark = *req.Remark
	}
	note.InvalidatePDF()

	if err := s.noteRepo.UpdateWithJobSet(ctx, note, req.JobIDs); err != nil {
		return nil, err
	}
	s.logger.Info("billing note edited",
		zap.String("billing_ref", note.BillingRef),
		zap.Int("job_count", len(req.JobIDs)))

	note.Jobs = jobs
	return ToBillingNoteResponse(note), nil
}

// Cancel voids a billing note and releases its jobs. Rejected while a
// receipt exists.
func (s *BillingNoteService) Cancel(ctx context.Context, principal identity.Principal, id uuid.UUID) error {
	note, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return err
	}
	hasReceipt, err := s.hasReceipt(ctx, note.ID)
	if err != nil {
		return err
	}
	if err := note.Cancel(hasReceipt); err != nil {
		return err
	}
	if err := s.noteRepo.CancelWithJobRelease(ctx, note); err != nil {
		return err
	}
	s.logger.Info("billing note cancelled", zap.String("billing_ref", note.BillingRef))
	drainEvents(s.logger, note)
	return nil
}

// UpdateStatus moves a note through the status machine directly. A
// CANCELLED target goes through the cancel path so jobs are released.
func (s *BillingNoteService) UpdateStatus(ctx context.Context, principal identity.Principal, id uuid.UUID, status billing.BillingNoteStatus) (*BillingNoteResponse, error) {
	if status == billing.BillingNoteStatusCancelled {
		if err := s.Cancel(ctx, principal, id); err != nil {
			return nil, err
		}
		return s.Get(ctx, principal, id)
	}

	note, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsPrivileged() && status != billing.BillingNoteStatusSubmitted {
		return nil, shared.ErrForbidden
	}
	if err := note.TransitionTo(status); err != nil {
		return nil, err
	}
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	drainEvents(s.logger, note)
	return ToBillingNoteResponse(note), nil
}

// calculate resolves the vendor's tax configuration and runs the
// calculator over the jobs' line amounts
func (s *BillingNoteService) calculate(ctx context.Context, vendorID uuid.UUID, jobs []billing.Job, beforeVatOverride *bool) (billing.Calculation, error) {
	settings, err := s.settingsRepo.FindByVendorID(ctx, vendorID)
	if err != nil {
		return billing.Calculation{}, err
	}
	cfg := billing.TaxConfigFor(settings, beforeVatOverride)
	amounts := make([]decimal.Decimal, 0)
	for i := range jobs {
		amounts = append(amounts, jobs[i].ItemAmounts()...)
	}
	return billing.Calculate(amounts, cfg), nil
}

// resolveBillingRef picks the note's reference: caller-supplied, then
// allocator, then the legacy fallback scheme. Whatever wins must be
// globally unique.
func (s *BillingNoteService) resolveBillingRef(ctx context.Context, vendorID uuid.UUID, requested string) (string, error) {
	ref := requested
	if ref == "" {
		allocated, enabled, err := s.numberSvc.Allocate(ctx, vendorID, billing.DocumentTypeBilling)
		if err != nil {
			return "", err
		}
		if enabled {
			ref = allocated
		} else {
			year := s.clock.Now().Year()
			maxSeq, err := s.noteRepo.MaxFallbackSequence(ctx, vendorID, billing.FallbackBillingPrefix, year)
			if err != nil {
				return "", err
			}
			ref = billing.FallbackRef(billing.FallbackBillingPrefix, year, maxSeq+1)
		}
	}
	exists, err := s.noteRepo.ExistsByRef(ctx, ref)
	if err != nil {
		return "", err
	}
	if exists {
		return "", shared.NewDomainError("DUPLICATE_REFERENCE", "Billing reference "+ref+" already exists")
	}
	return ref, nil
}

func (s *BillingNoteService) hasReceipt(ctx context.Context, noteID uuid.UUID) (bool, error) {
	receipt, err := s.receiptRepo.FindByBillingNoteID(ctx, noteID)
	if err != nil {
		return false, err
	}
	return receipt != nil, nil
}

func (s *BillingNoteService) loadOwned(ctx context.Context, principal identity.Principal, id uuid.UUID) (*billing.BillingNote, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Billing note not found")
	}
	if !principal.CanAccessVendor(note.VendorID) {
		return nil, shared.ErrForbidden
	}
	return note, nil
}

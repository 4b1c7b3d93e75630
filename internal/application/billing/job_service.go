package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/identity"
	"github.com/vendorbill/backend/internal/domain/shared"
)

// JobService handles job-related business operations
type JobService struct {
	jobRepo billing.JobRepository
	logger  *zap.Logger
}

// NewJobService creates a new JobService
func NewJobService(jobRepo billing.JobRepository, logger *zap.Logger) *JobService {
	return &JobService{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

// Create creates a pending job for the caller's vendor
func (s *JobService) Create(ctx context.Context, principal identity.Principal, req CreateJobRequest) (*JobResponse, error) {
	vendorID, err := principal.ResolveVendorID(req.VendorID)
	if err != nil {
		return nil, err
	}
	draft := toJobDraft(req.Description, req.RefInvoiceNo, req.ContainerNo, req.TruckPlate, req.DeclarationNo, req.ClearanceDate, req.Items)
	job, err := billing.NewJob(vendorID, draft)
	if err != nil {
		return nil, err
	}
	if principal.IsPrivileged() {
		createdBy := principal.UserID
		job.CreatedBy = &createdBy
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	s.logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("vendor_id", vendorID.String()),
		zap.String("total_amount", job.TotalAmount().StringFixed(2)))
	return ToJobResponse(job), nil
}

// Get returns a single job scoped to the caller
func (s *JobService) Get(ctx context.Context, principal identity.Principal, id uuid.UUID) (*JobResponse, error) {
	job, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return ToJobResponse(job), nil
}

// List returns jobs for a vendor, optionally filtered by status
func (s *JobService) List(ctx context.Context, principal identity.Principal, requestedVendor *uuid.UUID, status *billing.JobStatus, filter shared.Filter) (*shared.Paginated[JobResponse], error) {
	vendorID, err := principal.ResolveVendorID(requestedVendor)
	if err != nil {
		return nil, err
	}
	page, err := s.jobRepo.List(ctx, billing.JobFilter{
		Filter:   filter,
		VendorID: vendorID,
		Status:   status,
	})
	if err != nil {
		return nil, err
	}
	items := make([]JobResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *ToJobResponse(&page.Items[i])
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Update replaces a job's fields and entire item collection. Billed jobs
// are rejected; they change only through their billing note.
func (s *JobService) Update(ctx context.Context, principal identity.Principal, id uuid.UUID, req UpdateJobRequest) (*JobResponse, error) {
	job, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	draft := toJobDraft(req.Description, req.RefInvoiceNo, req.ContainerNo, req.TruckPlate, req.DeclarationNo, req.ClearanceDate, req.Items)
	if err := job.Update(draft); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return ToJobResponse(job), nil
}

// Delete removes a pending job and its items
func (s *JobService) Delete(ctx context.Context, principal identity.Principal, id uuid.UUID) error {
	job, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return err
	}
	if !job.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Billed jobs can only be changed through their billing note")
	}
	if err := s.jobRepo.Delete(ctx, job.ID); err != nil {
		return err
	}
	s.logger.Info("job deleted", zap.String("job_id", job.ID.String()))
	return nil
}

func (s *JobService) loadOwned(ctx context.Context, principal identity.Principal, id uuid.UUID) (*billing.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Job not found")
	}
	if !principal.CanAccessVendor(job.VendorID) {
		return nil, shared.ErrForbidden
	}
	return job, nil
}

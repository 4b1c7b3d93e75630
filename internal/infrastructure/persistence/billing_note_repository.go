package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/shared"
)

// GormBillingNoteRepository implements BillingNoteRepository using GORM
type GormBillingNoteRepository struct {
	db *gorm.DB
}

// NewGormBillingNoteRepository creates a new GormBillingNoteRepository
func NewGormBillingNoteRepository(db *gorm.DB) *GormBillingNoteRepository {
	return &GormBillingNoteRepository{db: db}
}

// FindByID finds a billing note with its jobs, nil when it does not
// exist
func (r *GormBillingNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingNote, error) {
	var note billing.BillingNote
	err := r.db.WithContext(ctx).Preload("Jobs.Items").Where("id = ?", id).First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

// FindByIDs returns the vendor's billing notes matching the given IDs
func (r *GormBillingNoteRepository) FindByIDs(ctx context.Context, vendorID uuid.UUID, ids []uuid.UUID) ([]billing.BillingNote, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var notes []billing.BillingNote
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND id IN ?", vendorID, ids).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// List returns a paginated page of the vendor's billing notes
func (r *GormBillingNoteRepository) List(ctx context.Context, filter billing.BillingNoteFilter) (*shared.Paginated[billing.BillingNote], error) {
	filter.Normalize()
	query := r.db.WithContext(ctx).Model(&billing.BillingNote{}).Where("vendor_id = ?", filter.VendorID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("billing_ref ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var notes []billing.BillingNote
	err := query.Preload("Jobs.Items").
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(filter.Offset()).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(notes, total, filter.Page, filter.PageSize), nil
}

// ExistsByRef reports whether any note already carries the reference
func (r *GormBillingNoteRepository) ExistsByRef(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&billing.BillingNote{}).
		Where("billing_ref = ?", ref).
		Count(&count).Error
	return count > 0, err
}

// Update saves the note without touching job linkage
func (r *GormBillingNoteRepository) Update(ctx context.Context, note *billing.BillingNote) error {
	return r.db.WithContext(ctx).Omit("Jobs").Save(note).Error
}

// CreateWithJobs persists the note and marks every listed job BILLED.
// The job update is guarded on vendor and PENDING status; a row count
// short of len(jobIDs) means another writer claimed a job first, and the
// transaction rolls back.
func (r *GormBillingNoteRepository) CreateWithJobs(ctx context.Context, note *billing.BillingNote, jobIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Jobs").Create(note).Error; err != nil {
			return err
		}
		return claimJobs(tx, note, jobIDs)
	})
}

// UpdateWithJobSet releases the note's current jobs, claims the new set
// and saves the recomputed snapshot in one transaction
func (r *GormBillingNoteRepository) UpdateWithJobSet(ctx context.Context, note *billing.BillingNote, jobIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := releaseJobs(tx, note.ID); err != nil {
			return err
		}
		if err := claimJobs(tx, note, jobIDs); err != nil {
			return err
		}
		return tx.Omit("Jobs").Save(note).Error
	})
}

// CancelWithJobRelease saves the cancelled note and releases its jobs
// back to PENDING
func (r *GormBillingNoteRepository) CancelWithJobRelease(ctx context.Context, note *billing.BillingNote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := releaseJobs(tx, note.ID); err != nil {
			return err
		}
		return tx.Omit("Jobs").Save(note).Error
	})
}

// MaxFallbackSequence scans the vendor's legacy refs for prefix+year and
// returns the highest running number found
func (r *GormBillingNoteRepository) MaxFallbackSequence(ctx context.Context, vendorID uuid.UUID, prefix string, year int) (int, error) {
	var refs []string
	err := r.db.WithContext(ctx).Model(&billing.BillingNote{}).
		Where("vendor_id = ? AND billing_ref LIKE ?", vendorID, fmt.Sprintf("%s%d-%%", prefix, year)).
		Pluck("billing_ref", &refs).Error
	if err != nil {
		return 0, err
	}
	return maxRefSequence(refs), nil
}

// claimJobs marks the given PENDING jobs as BILLED under the note. The
// guarded update doubles as the race check: fewer rows than requested
// aborts the enclosing transaction.
func claimJobs(tx *gorm.DB, note *billing.BillingNote, jobIDs []uuid.UUID) error {
	if len(jobIDs) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Billing note requires at least one job")
	}
	res := tx.Model(&billing.Job{}).
		Where("vendor_id = ? AND id IN ? AND status = ? AND billing_note_id IS NULL",
			note.VendorID, jobIDs, billing.JobStatusPending).
		Updates(map[string]any{
			"status":          billing.JobStatusBilled,
			"billing_note_id": note.ID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(jobIDs)) {
		return shared.NewDomainError("INVALID_STATE", "One or more jobs are no longer available for billing")
	}
	return nil
}

// maxRefSequence extracts the running number after the last dash of each
// legacy ref and returns the maximum. Refs without a numeric suffix are
// skipped.
func maxRefSequence(refs []string) int {
	max := 0
	for _, ref := range refs {
		idx := strings.LastIndex(ref, "-")
		if idx < 0 || idx == len(ref)-1 {
			continue
		}
		n, err := strconv.Atoi(ref[idx+1:])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// releaseJobs returns every job linked to the note to PENDING
func releaseJobs(tx *gorm.DB, noteID uuid.UUID) error {
	return tx.Model(&billing.Job{}).
		Where("billing_note_id = ?", noteID).
		Updates(map[string]any{
			"status":          billing.JobStatusPending,
			"billing_note_id": nil,
		}).Error
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/shared"
)

// GormJobRepository implements JobRepository using GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Create persists a job together with its items
func (r *GormJobRepository) Create(ctx context.Context, job *billing.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// Update saves the job and replaces its item set
func (r *GormJobRepository) Update(ctx context.Context, job *billing.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&billing.JobItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Items").Save(job).Error; err != nil {
			return err
		}
		if len(job.Items) > 0 {
			if err := tx.Create(&job.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a job and its items
func (r *GormJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&billing.JobItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&billing.Job{}).Error
	})
}

// FindByID finds a job by ID, nil when it does not exist
func (r *GormJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Job, error) {
	var job billing.Job
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindByIDs returns the vendor's jobs matching the given IDs
func (r *GormJobRepository) FindByIDs(ctx context.Context, vendorID uuid.UUID, ids []uuid.UUID) ([]billing.Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var jobs []billing.Job
	err := r.db.WithContext(ctx).Preload("Items").
		Where("vendor_id = ? AND id IN ?", vendorID, ids).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// List returns a paginated page of the vendor's jobs
func (r *GormJobRepository) List(ctx context.Context, filter billing.JobFilter) (*shared.Paginated[billing.Job], error) {
	filter.Normalize()
	query := r.db.WithContext(ctx).Model(&billing.Job{}).Where("vendor_id = ?", filter.VendorID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR ref_invoice_no ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var jobs []billing.Job
	err := query.Preload("Items").
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(filter.Offset()).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return shared.NewPaginated(jobs, total, filter.Page, filter.PageSize), nil
}

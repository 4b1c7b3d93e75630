package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorbill/backend/internal/domain/billing"
)

func TestCreateWithJobsLinksJobs(t *testing.T) {
	db := newTestDB(t)
	noteRepo := NewGormBillingNoteRepository(db)
	jobRepo := NewGormJobRepository(db)
	ctx := context.Background()
	vendorID := uuid.New()

	jobA := seedJob(t, db, vendorID, "1000.00", "70.00")
	jobB := seedJob(t, db, vendorID, "214.00")
	note := buildNote(t, vendorID, "B20250115001", jobA, jobB)

	require.NoError(t, noteRepo.CreateWithJobs(ctx, note, jobIDs(jobA, jobB)))

	stored, err := noteRepo.FindByID(ctx, note.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "B20250115001", stored.BillingRef)
	assert.Len(t, stored.Jobs, 2)

	for _, id := range jobIDs(jobA, jobB) {
		job, err := jobRepo.FindByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, job)
		assert.Equal(t, billing.JobStatusBilled, job.Status)
		require.NotNil(t, job.BillingNoteID)
		assert.Equal(t, note.ID, *job.BillingNoteID)
	}
}

func TestCreateWithJobsAbortsOnClaimedJob(t *testing.T) {
	db := newTestDB(t)
	noteRepo := NewGormBillingNoteRepository(db)
	jobRepo := NewGormJobRepository(db)
	ctx := context.Background()
	vendorID := uuid.New()

	jobA := seedJob(t, db, vendorID, "1070.00")
	jobB := seedJob(t, db, vendorID, "214.00")

	first := buildNote(t, vendorID, "B20250115001", jobB)
	require.NoError(t, noteRepo.CreateWithJobs(ctx, first, jobIDs(jobB)))

	second := buildNote(t, vendorID, "B20250115002", jobA, jobB)
	err := noteRepo.CreateWithJobs(ctx, second, jobIDs(jobA, jobB))
	require.Error(t, err)

	t.Run("note insert is rolled back", func(t *testing.T) {
		stored, err := noteRepo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("unclaimed job stays pending", func(t *testing.T) {
		job, err := jobRepo.FindByID(ctx, jobA.ID)
		require.NoError(t, err)
		require.NotNil(t, job)
		assert.Equal(t, billing.JobStatusPending, job.Status)
		assert.Nil(t, job.BillingNoteID)
	})
}

func TestUpdateWithJobSet(t *testing.T) {
	db := newTestDB(t)
	noteRepo := NewGormBillingNoteRepository(db)
	jobRepo := NewGormJobRepository(db)
	ctx := context.Background()
	vendorID := uuid.New()

	jobA := seedJob(t, db, vendorID, "1070.00")
	jobB := seedJob(t, db, vendorID, "214.00")

	note := buildNote(t, vendorID, "B20250115001", jobA)
	require.NoError(t, noteRepo.CreateWithJobs(ctx, note, jobIDs(jobA)))

	note.ApplyCalculation(billing.Calculate(jobB.ItemAmounts(), billing.DefaultTaxConfig()))
	require.NoError(t, noteRepo.UpdateWithJobSet(ctx, note, jobIDs(jobB)))

	released, err := jobRepo.FindByID(ctx, jobA.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.JobStatusPending, released.Status)
	assert.Nil(t, released.BillingNoteID)

	claimed, err := jobRepo.FindByID(ctx, jobB.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.JobStatusBilled, claimed.Status)

	stored, err := noteRepo.FindByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "214.00", stored.Subtotal.StringFixed(2))
	assert.Len(t, stored.Jobs, 1)
}

func TestCancelWithJobRelease(t *testing.T) {
	db := newTestDB(t)
	noteRepo := NewGormBillingNoteRepository(db)
	jobRepo := NewGormJobRepository(db)
	ctx := context.Background()
	vendorID := uuid.New()

	jobA := seedJob(t, db, vendorID, "1070.00")
	jobB := seedJob(t, db, vendorID, "214.00")
	note := buildNote(t, vendorID, "B20250115001", jobA, jobB)
	require.NoError(t, noteRepo.CreateWithJobs(ctx, note, jobIDs(jobA, jobB)))

	require.NoError(t, note.Cancel(false))
	require.NoError(t, noteRepo.CancelWithJobRelease(ctx, note))

	stored, err := noteRepo.FindByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.BillingNoteStatusCancelled, stored.Status)
	assert.Empty(t, stored.Jobs)

	for _, id := range jobIDs(jobA, jobB) {
		job, err := jobRepo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, billing.JobStatusPending, job.Status)
		assert.Nil(t, job.BillingNoteID)
	}
}

func TestBillingNoteExistsByRef(t *testing.T) {
	db := newTestDB(t)
	noteRepo := NewGormBillingNoteRepository(db)
	ctx := context.Background()
	vendorID := uuid.New()

	job := seedJob(t, db, vendorID, "1070.00")
	note := buildNote(t, vendorID, "B20250115001", job)
	require.NoError(t, noteRepo.CreateWithJobs(ctx, note, jobIDs(job)))

	exists, err := noteRepo.ExistsByRef(ctx, "B20250115001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = noteRepo.ExistsByRef(ctx, "B20250115099")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBillingNoteMaxFallbackSequence(t *testing.T) {
	db := newTestDB(t)
	noteRepo := NewGormBillingNoteRepository(db)
	ctx := context.Background()
	vendorID := uuid.New()
	otherVendor := uuid.New()

	for _, ref := range []string{"VBS2025-0007", "VBS2025-0002", "VBS2024-0009"} {
		job := seedJob(t, db, vendorID, "107.00")
		require.NoError(t, noteRepo.CreateWithJobs(ctx, buildNote(t, vendorID, ref, job), jobIDs(job)))
	}
	otherJob := seedJob(t, db, otherVendor, "107.00")
	require.NoError(t, noteRepo.CreateWithJobs(ctx, buildNote(t, otherVendor, "VBS2025-0100", otherJob), jobIDs(otherJob)))

	max, err := noteRepo.MaxFallbackSequence(ctx, vendorID, billing.FallbackBillingPrefix, 2025)
	require.NoError(t, err)
	assert.Equal(t, 7, max)

	t.Run("year without refs yields zero", func(t *testing.T) {
		max, err := noteRepo.MaxFallbackSequence(ctx, vendorID, billing.FallbackBillingPrefix, 2023)
		require.NoError(t, err)
		assert.Equal(t, 0, max)
	})
}

func TestBillingNoteList(t *testing.T) {
	db := newTestDB(t)
	noteRepo := NewGormBillingNoteRepository(db)
	ctx := context.Background()
	vendorID := uuid.New()

	for i, ref := range []string{"B20250115001", "B20250115002", "B20250115003"} {
		job := seedJob(t, db, vendorID, "107.00")
		note := buildNote(t, vendorID, ref, job)
		require.NoError(t, noteRepo.CreateWithJobs(ctx, note, jobIDs(job)))
		if i == 0 {
			require.NoError(t, note.Submit())
			require.NoError(t, noteRepo.Update(ctx, note))
		}
	}

	page, err := noteRepo.List(ctx, billing.BillingNoteFilter{VendorID: vendorID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Items, 3)

	t.Run("filters by status", func(t *testing.T) {
		status := billing.BillingNoteStatusSubmitted
		page, err := noteRepo.List(ctx, billing.BillingNoteFilter{VendorID: vendorID, Status: &status})
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.Total)
	})

	t.Run("scopes to vendor", func(t *testing.T) {
		page, err := noteRepo.List(ctx, billing.BillingNoteFilter{VendorID: uuid.New()})
		require.NoError(t, err)
		assert.EqualValues(t, 0, page.Total)
		assert.Empty(t, page.Items)
	})
}

func TestBillingNoteFindByIDs(t *testing.T) {
	db := newTestDB(t)
	noteRepo := NewGormBillingNoteRepository(db)
	ctx := context.Background()
	vendorID := uuid.New()

	job := seedJob(t, db, vendorID, "107.00")
	note := buildNote(t, vendorID, "B20250115001", job)
	require.NoError(t, noteRepo.CreateWithJobs(ctx, note, jobIDs(job)))

	notes, err := noteRepo.FindByIDs(ctx, vendorID, []uuid.UUID{note.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	t.Run("other vendor sees nothing", func(t *testing.T) {
		notes, err := noteRepo.FindByIDs(ctx, uuid.New(), []uuid.UUID{note.ID})
		require.NoError(t, err)
		assert.Empty(t, notes)
	})
}

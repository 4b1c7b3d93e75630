package persistence

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vendorbill/backend/internal/domain/billing"
)

// newTestDB opens a per-test in-memory database. The single connection
// keeps concurrent writers serialized the way a real server pool would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedJob(t *testing.T, db *gorm.DB, vendorID uuid.UUID, amounts ...string) *billing.Job {
	t.Helper()
	items := make([]billing.JobItemDraft, 0, len(amounts))
	for i, a := range amounts {
		items = append(items, billing.JobItemDraft{
			Description: fmt.Sprintf("Line %d", i+1),
			Amount:      decimal.RequireFromString(a),
		})
	}
	job, err := billing.NewJob(vendorID, billing.JobDraft{
		Description:   "Customs clearance",
		ClearanceDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Items:         items,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormJobRepository(db).Create(context.Background(), job))
	return job
}

func buildNote(t *testing.T, vendorID uuid.UUID, ref string, jobs ...*billing.Job) *billing.BillingNote {
	t.Helper()
	var amounts []decimal.Decimal
	for _, j := range jobs {
		amounts = append(amounts, j.ItemAmounts()...)
	}
	calc := billing.Calculate(amounts, billing.DefaultTaxConfig())
	note, err := billing.NewBillingNote(vendorID, ref, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), calc, "")
	require.NoError(t, err)
	return note
}

func jobIDs(jobs ...*billing.Job) []uuid.UUID {
	ids := make([]uuid.UUID, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return ids
}

package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/vendorbill/backend/internal/domain/billing"
	"github.com/vendorbill/backend/internal/domain/identity"
	"github.com/vendorbill/backend/internal/domain/shared"
)

// fixedClock pins allocation time so period keys are deterministic
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

func vendorPrincipal(vendorID uuid.UUID) identity.Principal {
	return identity.Principal{UserID: uuid.New(), Role: identity.RoleVendor, VendorID: &vendorID}
}

func adminPrincipal() identity.Principal {
	return identity.Principal{UserID: uuid.New(), Role: identity.RoleAdmin}
}

// MockJobRepository is a mock implementation of JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *billing.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, job *billing.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Job), args.Error(1)
}

func (m *MockJobRepository) FindByIDs(ctx context.Context, vendorID uuid.UUID, ids []uuid.UUID) ([]billing.Job, error) {
	args := m.Called(ctx, vendorID, ids)
	return args.Get(0).([]billing.Job), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, filter billing.JobFilter) (*shared.Paginated[billing.Job], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.Job]), args.Error(1)
}

// MockBillingNoteRepository is a mock implementation of BillingNoteRepository
type MockBillingNoteRepository struct {
	mock.Mock
}

func (m *MockBillingNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingNote), args.Error(1)
}

func (m *MockBillingNoteRepository) FindByIDs(ctx context.Context, vendorID uuid.UUID, ids []uuid.UUID) ([]billing.BillingNote, error) {
	args := m.Called(ctx, vendorID, ids)
	return args.Get(0).([]billing.BillingNote), args.Error(1)
}

func (m *MockBillingNoteRepository) List(ctx context.Context, filter billing.BillingNoteFilter) (*shared.Paginated[billing.BillingNote], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.BillingNote]), args.Error(1)
}

func (m *MockBillingNoteRepository) ExistsByRef(ctx context.Context, ref string) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillingNoteRepository) Update(ctx context.Context, note *billing.BillingNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockBillingNoteRepository) CreateWithJobs(ctx context.Context, note *billing.BillingNote, jobIDs []uuid.UUID) error {
	args := m.Called(ctx, note, jobIDs)
	return args.Error(0)
}

func (m *MockBillingNoteRepository) UpdateWithJobSet(ctx context.Context, note *billing.BillingNote, jobIDs []uuid.UUID) error {
	args := m.Called(ctx, note, jobIDs)
	return args.Error(0)
}

func (m *MockBillingNoteRepository) CancelWithJobRelease(ctx context.Context, note *billing.BillingNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockBillingNoteRepository) MaxFallbackSequence(ctx context.Context, vendorID uuid.UUID, prefix string, year int) (int, error) {
	args := m.Called(ctx, vendorID, prefix, year)
	return args.Int(0), args.Error(1)
}

// MockReceiptRepository is a mock implementation of ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByBillingNoteID(ctx context.Context, billingNoteID uuid.UUID) (*billing.Receipt, error) {
	args := m.Called(ctx, billingNoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) List(ctx context.Context, filter billing.ReceiptFilter) (*shared.Paginated[billing.Receipt], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.Receipt]), args.Error(1)
}

func (m *MockReceiptRepository) ExistsByRef(ctx context.Context, ref string) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

func (m *MockReceiptRepository) CreateAndMarkBillingPaid(ctx context.Context, receipt *billing.Receipt, note *billing.BillingNote) error {
	args := m.Called(ctx, receipt, note)
	return args.Error(0)
}

func (m *MockReceiptRepository) DeleteAndRevertBilling(ctx context.Context, receipt *billing.Receipt, note *billing.BillingNote) error {
	args := m.Called(ctx, receipt, note)
	return args.Error(0)
}

func (m *MockReceiptRepository) SaveWithBilling(ctx context.Context, receipt *billing.Receipt, note *billing.BillingNote) error {
	args := m.Called(ctx, receipt, note)
	return args.Error(0)
}

func (m *MockReceiptRepository) MaxFallbackSequence(ctx context.Context, vendorID uuid.UUID, prefix string, year int) (int, error) {
	args := m.Called(ctx, vendorID, prefix, year)
	return args.Int(0), args.Error(1)
}

// MockPaymentVoucherRepository is a mock implementation of PaymentVoucherRepository
type MockPaymentVoucherRepository struct {
	mock.Mock
}

func (m *MockPaymentVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentVoucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentVoucher), args.Error(1)
}

func (m *MockPaymentVoucherRepository) List(ctx context.Context, filter billing.PaymentVoucherFilter) (*shared.Paginated[billing.PaymentVoucher], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.PaymentVoucher]), args.Error(1)
}

func (m *MockPaymentVoucherRepository) Update(ctx context.Context, voucher *billing.PaymentVoucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *MockPaymentVoucherRepository) ExistsByRef(ctx context.Context, ref string) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentVoucherRepository) CreateWithMembers(ctx context.Context, voucher *billing.PaymentVoucher, memberIDs []uuid.UUID) error {
	args := m.Called(ctx, voucher, memberIDs)
	return args.Error(0)
}

func (m *MockPaymentVoucherRepository) CancelAndReleaseMembers(ctx context.Context, voucher *billing.PaymentVoucher, keepRow bool) error {
	args := m.Called(ctx, voucher, keepRow)
	return args.Error(0)
}

// MockDocConfigRepository is a mock implementation of DocumentNumberConfigRepository
type MockDocConfigRepository struct {
	mock.Mock
}

func (m *MockDocConfigRepository) FindByVendorAndType(ctx context.Context, vendorID uuid.UUID, docType billing.DocumentType) (*billing.DocumentNumberConfig, error) {
	args := m.Called(ctx, vendorID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.DocumentNumberConfig), args.Error(1)
}

func (m *MockDocConfigRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]billing.DocumentNumberConfig, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]billing.DocumentNumberConfig), args.Error(1)
}

func (m *MockDocConfigRepository) Upsert(ctx context.Context, config *billing.DocumentNumberConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockDocConfigRepository) Delete(ctx context.Context, vendorID uuid.UUID, docType billing.DocumentType) error {
	args := m.Called(ctx, vendorID, docType)
	return args.Error(0)
}

// MockSequenceRepository is a mock implementation of DocumentSequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, vendorID uuid.UUID, docType billing.DocumentType, periodKey string) (int, error) {
	args := m.Called(ctx, vendorID, docType, periodKey)
	return args.Int(0), args.Error(1)
}

func (m *MockSequenceRepository) Current(ctx context.Context, vendorID uuid.UUID, docType billing.DocumentType, periodKey string) (int, error) {
	args := m.Called(ctx, vendorID, docType, periodKey)
	return args.Int(0), args.Error(1)
}

// MockSettingsRepository is a mock implementation of VendorTaxSettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindByVendorID(ctx context.Context, vendorID uuid.UUID) (*billing.VendorTaxSettings, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.VendorTaxSettings), args.Error(1)
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, settings *billing.VendorTaxSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

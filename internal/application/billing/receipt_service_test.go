package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendorbill/backend/internal/domain/billing"
)

type receiptServiceMocks struct {
	receiptRepo *MockReceiptRepository
	noteRepo    *MockBillingNoteRepository
	configRepo  *MockDocConfigRepository
	seqRepo     *MockSequenceRepository
}

func newReceiptService(t *testing.T) (*ReceiptService, *receiptServiceMocks) {
	t.Helper()
	m := &receiptServiceMocks{
		receiptRepo: new(MockReceiptRepository),
		noteRepo:    new(MockBillingNoteRepository),
		configRepo:  new(MockDocConfigRepository),
		seqRepo:     new(MockSequenceRepository),
	}
	numberSvc := NewDocumentNumberService(m.configRepo, m.seqRepo, fixedClock{testNow})
	return NewReceiptService(m.receiptRepo, m.noteRepo, numberSvc, fixedClock{testNow}, zap.NewNop()), m
}

func approvedNote(t *testing.T, vendorID uuid.UUID) *billing.BillingNote {
	t.Helper()
	calc := billing.Calculate([]decimal.Decimal{decimal.RequireFromString("1070.00")}, billing.DefaultTaxConfig())
	note, err := billing.NewBillingNote(vendorID, "VBS2025-0001", testNow, calc, "")
	require.NoError(t, err)
	require.NoError(t, note.Submit())
	require.NoError(t, note.ApproveInto(uuid.New()))
	return note
}

func TestReceiptServiceCreate(t *testing.T) {
	vendorID := uuid.New()
	principal := vendorPrincipal(vendorID)

	t.Run("issues receipt and marks billing paid", func(t *testing.T) {
		svc, m := newReceiptService(t)
		note := approvedNote(t, vendorID)

		m.noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)
		m.receiptRepo.On("FindByBillingNoteID", mock.Anything, note.ID).Return(nil, nil)
		m.configRepo.On("FindByVendorAndType", mock.Anything, vendorID, billing.DocumentTypeReceipt).Return(nil, nil)
		m.receiptRepo.On("MaxFallbackSequence", mock.Anything, vendorID, "RE", 2025).Return(2, nil)
		m.receiptRepo.On("ExistsByRef", mock.Anything, "RE2025-0003").Return(false, nil)
		m.receiptRepo.On("CreateAndMarkBillingPaid", mock.Anything, mock.AnythingOfType("*billing.Receipt"), note).Return(nil)

		resp, err := svc.Create(context.Background(), principal, CreateReceiptRequest{BillingNoteID: note.ID, ReceiptDate: testNow})
		require.NoError(t, err)
		assert.Equal(t, "RE2025-0003", resp.ReceiptRef)
		assert.Equal(t, "PAID", resp.Status)
		assert.Equal(t, billing.BillingNoteStatusPaid, note.Status)
	})

	t.Run("rejects second receipt", func(t *testing.T) {
		svc, m := newReceiptService(t)
		note := approvedNote(t, vendorID)
		existing, err := billing.NewReceipt(note, "RE2025-0001", testNow)
		require.NoError(t, err)

		m.noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)
		m.receiptRepo.On("FindByBillingNoteID", mock.Anything, note.ID).Return(existing, nil)

		_, err = svc.Create(context.Background(), principal, CreateReceiptRequest{BillingNoteID: note.ID})
		require.Error(t, err)
		m.receiptRepo.AssertNotCalled(t, "CreateAndMarkBillingPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects non-approved billing note", func(t *testing.T) {
		svc, m := newReceiptService(t)
		calc := billing.Calculate([]decimal.Decimal{decimal.RequireFromString("100.00")}, billing.DefaultTaxConfig())
		note, err := billing.NewBillingNote(vendorID, "VBS2025-0009", testNow, calc, "")
		require.NoError(t, err)

		m.noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)
		m.receiptRepo.On("FindByBillingNoteID", mock.Anything, note.ID).Return(nil, nil)
		m.configRepo.On("FindByVendorAndType", mock.Anything, vendorID, billing.DocumentTypeReceipt).Return(nil, nil)
		m.receiptRepo.On("MaxFallbackSequence", mock.Anything, vendorID, "RE", 2025).Return(0, nil)
		m.receiptRepo.On("ExistsByRef", mock.Anything, "RE2025-0001").Return(false, nil)

		_, err = svc.Create(context.Background(), principal, CreateReceiptRequest{BillingNoteID: note.ID})
		require.Error(t, err)
	})

	t.Run("rejects foreign vendor", func(t *testing.T) {
		svc, m := newReceiptService(t)
		note := approvedNote(t, uuid.New())

		m.noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)

		_, err := svc.Create(context.Background(), principal, CreateReceiptRequest{BillingNoteID: note.ID})
		require.Error(t, err)
	})
}

func TestReceiptServiceDelete(t *testing.T) {
	vendorID := uuid.New()

	t.Run("reverts billing to pending", func(t *testing.T) {
		svc, m := newReceiptService(t)
		note := approvedNote(t, vendorID)
		require.NoError(t, note.MarkPaid())
		receipt, err := billing.NewReceipt(note, "RE2025-0004", testNow)
		require.NoError(t, err)

		m.receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		m.noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)
		m.receiptRepo.On("DeleteAndRevertBilling", mock.Anything, receipt, note).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), adminPrincipal(), receipt.ID))
		assert.Equal(t, billing.BillingNoteStatusPending, note.Status)
	})

	t.Run("vendor cannot delete", func(t *testing.T) {
		svc, m := newReceiptService(t)
		require.Error(t, svc.Delete(context.Background(), vendorPrincipal(vendorID), uuid.New()))
		m.receiptRepo.AssertNotCalled(t, "DeleteAndRevertBilling", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReceiptServiceUpdateStatus(t *testing.T) {
	vendorID := uuid.New()

	t.Run("revert flag also reverts billing", func(t *testing.T) {
		svc, m := newReceiptService(t)
		note := approvedNote(t, vendorID)
		require.NoError(t, note.MarkPaid())
		receipt, err := billing.NewReceipt(note, "RE2025-0005", testNow)
		require.NoError(t, err)

		m.receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		m.noteRepo.On("FindByID", mock.Anything, note.ID).Return(note, nil)
		m.receiptRepo.On("SaveWithBilling", mock.Anything, receipt, note).Return(nil)

		resp, err := svc.UpdateStatus(context.Background(), adminPrincipal(), receipt.ID, UpdateReceiptStatusRequest{
			Status:        "PENDING",
			RevertBilling: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, billing.BillingNoteStatusPending, note.Status)
	})

	t.Run("without flag the billing note is untouched", func(t *testing.T) {
		svc, m := newReceiptService(t)
		note := approvedNote(t, vendorID)
		require.NoError(t, note.MarkPaid())
		receipt, err := billing.NewReceipt(note, "RE2025-0006", testNow)
		require.NoError(t, err)

		m.receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		m.receiptRepo.On("SaveWithBilling", mock.Anything, receipt, (*billing.BillingNote)(nil)).Return(nil)

		_, err = svc.UpdateStatus(context.Background(), adminPrincipal(), receipt.ID, UpdateReceiptStatusRequest{Status: "PENDING"})
		require.NoError(t, err)
		assert.Equal(t, billing.BillingNoteStatusPaid, note.Status)
		m.noteRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("vendor is forbidden", func(t *testing.T) {
		svc, _ := newReceiptService(t)
		_, err := svc.UpdateStatus(context.Background(), vendorPrincipal(vendorID), uuid.New(), UpdateReceiptStatusRequest{Status: "PENDING"})
		require.Error(t, err)
	})
}

package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submittedNoteForVendor(t *testing.T, vendorID uuid.UUID, ref, amount string) BillingNote {
	t.Helper()
	calc := Calculate(amounts(amount), DefaultTaxConfig())
	note, err := NewBillingNote(vendorID, ref, time.Now(), calc, "")
	require.NoError(t, err)
	require.NoError(t, note.Submit())
	return *note
}

func TestNewPaymentVoucher(t *testing.T) {
	vendorID := uuid.New()
	voucherDate := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	t.Run("sums member snapshots", func(t *testing.T) {
		members := []BillingNote{
			submittedNoteForVendor(t, vendorID, "B20250115001", "1070.00"),
			submittedNoteForVendor(t, vendorID, "B20250115002", "214.00"),
		}
		voucher, err := NewPaymentVoucher(vendorID, "PV20250120001", voucherDate, members, "weekly run")
		require.NoError(t, err)

		assert.Equal(t, VoucherStatusPending, voucher.Status)
		assert.Equal(t, "1284.00", voucher.Subtotal.StringFixed(2))
		assert.Equal(t, "84.00", voucher.VatAmount.StringFixed(2))
		assert.Equal(t, "36.00", voucher.WhtAmount.StringFixed(2))
		assert.Equal(t, "1248.00", voucher.NetTotal.StringFixed(2))
	})

	t.Run("carries the member notes", func(t *testing.T) {
		members := []BillingNote{
			submittedNoteForVendor(t, vendorID, "B20250116001", "107.00"),
			submittedNoteForVendor(t, vendorID, "B20250116002", "214.00"),
		}
		voucher, err := NewPaymentVoucher(vendorID, "PV20250120007", voucherDate, members, "")
		require.NoError(t, err)

		ids := voucher.MemberIDs()
		require.Len(t, ids, 2)
		assert.Equal(t, members[0].ID, ids[0])
		assert.Equal(t, members[1].ID, ids[1])
	})

	t.Run("rejects empty member set", func(t *testing.T) {
		_, err := NewPaymentVoucher(vendorID, "PV20250120002", voucherDate, nil, "")
		require.Error(t, err)
	})

	t.Run("rejects foreign vendor member", func(t *testing.T) {
		members := []BillingNote{submittedNoteForVendor(t, uuid.New(), "B20250115003", "100")}
		_, err := NewPaymentVoucher(vendorID, "PV20250120003", voucherDate, members, "")
		require.Error(t, err)
	})

	t.Run("rejects non-submitted member", func(t *testing.T) {
		member := submittedNoteForVendor(t, vendorID, "B20250115004", "100")
		member.Status = BillingNoteStatusPending
		_, err := NewPaymentVoucher(vendorID, "PV20250120004", voucherDate, []BillingNote{member}, "")
		require.Error(t, err)
	})

	t.Run("rejects already vouchered member", func(t *testing.T) {
		member := submittedNoteForVendor(t, vendorID, "B20250115005", "100")
		existing := uuid.New()
		member.PaymentVoucherID = &existing
		_, err := NewPaymentVoucher(vendorID, "PV20250120005", voucherDate, []BillingNote{member}, "")
		require.Error(t, err)
	})
}

func TestPaymentVoucherCancel(t *testing.T) {
	vendorID := uuid.New()
	members := []BillingNote{submittedNoteForVendor(t, vendorID, "B20250115006", "535.00")}
	voucher, err := NewPaymentVoucher(vendorID, "PV20250120006", time.Now(), members, "")
	require.NoError(t, err)

	require.NoError(t, voucher.Cancel())
	assert.Equal(t, VoucherStatusCancelled, voucher.Status)
	require.Error(t, voucher.Cancel())
}

func TestPaymentVoucherUpdateStatus(t *testing.T) {
	vendorID := uuid.New()
	members := []BillingNote{submittedNoteForVendor(t, vendorID, "B20250115007", "535.00")}
	voucher, err := NewPaymentVoucher(vendorID, "PV20250120007", time.Now(), members, "")
	require.NoError(t, err)

	require.NoError(t, voucher.UpdateStatus(VoucherStatusApproved))
	assert.Equal(t, VoucherStatusApproved, voucher.Status)

	require.Error(t, voucher.UpdateStatus("VOID"))

	require.NoError(t, voucher.UpdateStatus(VoucherStatusCancelled))
	require.Error(t, voucher.UpdateStatus(VoucherStatusPending))
}

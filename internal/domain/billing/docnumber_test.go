package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan15 = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func TestNumberRulePeriodKey(t *testing.T) {
	cases := []struct {
		period ResetPeriod
		want   string
	}{
		{ResetDaily, "20250115"},
		{ResetMonthly, "202501"},
		{ResetYearly, "2025"},
		{ResetNever, "ALL"},
	}
	for _, tc := range cases {
		rule := NumberRule{ResetPeriod: tc.period}
		assert.Equal(t, tc.want, rule.PeriodKey(jan15), "period %s", tc.period)
	}
}

func TestNumberRuleFormat(t *testing.T) {
	cases := []struct {
		name string
		rule NumberRule
		n    int
		want string
	}{
		{"daily 3 digits", NumberRule{Prefix: "INV", DateFormat: DateFormatYYYYMMDD, RunningDigits: 3}, 7, "INV20250115007"},
		{"monthly 4 digits", NumberRule{Prefix: "B", DateFormat: DateFormatYYYYMM, RunningDigits: 4}, 12, "B2025010012"},
		{"short year-month", NumberRule{Prefix: "R", DateFormat: DateFormatYYMM, RunningDigits: 2}, 5, "R250105"},
		{"overflowing digits keep full number", NumberRule{Prefix: "X", DateFormat: DateFormatYYYYMMDD, RunningDigits: 2}, 123, "X20250115123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rule.Format(jan15, tc.n))
		})
	}
}

func TestNumberRuleValidate(t *testing.T) {
	valid := NumberRule{Prefix: "B", DateFormat: DateFormatYYYYMMDD, RunningDigits: 3, ResetPeriod: ResetDaily}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.RunningDigits = 1
	require.Error(t, bad.Validate())

	bad = valid
	bad.RunningDigits = 7
	require.Error(t, bad.Validate())

	bad = valid
	bad.DateFormat = "DDMMYYYY"
	require.Error(t, bad.Validate())

	bad = valid
	bad.ResetPeriod = "WEEKLY"
	require.Error(t, bad.Validate())
}

func TestPaymentVoucherRule(t *testing.T) {
	rule := PaymentVoucherRule()
	assert.Equal(t, "PV20250115001", rule.Format(jan15, 1))
	assert.Equal(t, "20250115", rule.PeriodKey(jan15))
}

func TestDefaultPreviewRule(t *testing.T) {
	assert.Equal(t, "B20250115001", DefaultPreviewRule(DocumentTypeBilling).Format(jan15, 1))
	assert.Equal(t, "R20250115001", DefaultPreviewRule(DocumentTypeReceipt).Format(jan15, 1))
	assert.Equal(t, "PV20250115001", DefaultPreviewRule(DocumentTypePaymentVoucher).Format(jan15, 1))
}

func TestFallbackRef(t *testing.T) {
	assert.Equal(t, "VBS2025-0007", FallbackRef(FallbackBillingPrefix, 2025, 7))
	assert.Equal(t, "RE2025-0001", FallbackRef(FallbackReceiptPrefix, 2025, 1))
}

func TestNewDocumentNumberConfig(t *testing.T) {
	vendorID := uuid.New()
	rule := NumberRule{Prefix: "INV", DateFormat: DateFormatYYYYMM, RunningDigits: 4, ResetPeriod: ResetMonthly}

	t.Run("creates valid config", func(t *testing.T) {
		cfg, err := NewDocumentNumberConfig(vendorID, DocumentTypeBilling, true, rule)
		require.NoError(t, err)
		assert.Equal(t, vendorID, cfg.VendorID)
		assert.Equal(t, rule, cfg.Rule())
	})

	t.Run("rejects payment voucher type", func(t *testing.T) {
		_, err := NewDocumentNumberConfig(vendorID, DocumentTypePaymentVoucher, true, rule)
		require.Error(t, err)
	})

	t.Run("rejects nil vendor", func(t *testing.T) {
		_, err := NewDocumentNumberConfig(uuid.Nil, DocumentTypeBilling, true, rule)
		require.Error(t, err)
	})

	t.Run("rejects invalid rule", func(t *testing.T) {
		bad := rule
		bad.RunningDigits = 9
		_, err := NewDocumentNumberConfig(vendorID, DocumentTypeBilling, true, bad)
		require.Error(t, err)
	})
}

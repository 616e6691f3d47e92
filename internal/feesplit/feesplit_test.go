package feesplit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name         string
		rate         string
		total        string
		wantMerchant string
		wantFee      string
		wantErrKind  apperror.Kind
	}{
		{
			name:         "default rate on round total",
			rate:         "0.005",
			total:        "100",
			wantMerchant: "99.5",
			wantFee:      "0.5",
		},
		{
			name:         "fractional total rounds to 8 places",
			rate:         "0.005",
			total:        "0.12345678",
			wantMerchant: "0.1228395",
			wantFee:      "0.00061728",
		},
		{
			name:         "tiny total still splits",
			rate:         "0.005",
			total:        "0.00000001",
			wantMerchant: "0.00000001",
			wantFee:      "0",
		},
		{
			name:         "zero rate sends everything to merchant",
			rate:         "0",
			total:        "42.5",
			wantMerchant: "42.5",
			wantFee:      "0",
		},
		{
			name:        "zero total rejected",
			rate:        "0.005",
			total:       "0",
			wantErrKind: apperror.KindInvalidAmount,
		},
		{
			name:        "negative total rejected",
			rate:        "0.005",
			total:       "-5",
			wantErrKind: apperror.KindInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := New(tt.rate)
			assert.NoError(t, err)

			got, err := calc.Split(decimal.RequireFromString(tt.total))
			if tt.wantErrKind != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErrKind, apperror.KindOf(err))
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantMerchant, got.MerchantAmount.String())
			assert.Equal(t, tt.wantFee, got.PlatformFee.String())
		})
	}
}

func TestSplitReconciliation(t *testing.T) {
	calc, err := New("0.005")
	assert.NoError(t, err)

	tolerance := decimal.RequireFromString("0.00000001")
	totals := []string{
		"100", "1", "0.1", "0.33333333", "12345.6789",
		"0.00000003", "99999999.99999999", "7.77777777",
	}

	for _, total := range totals {
		got, err := calc.Split(decimal.RequireFromString(total))
		assert.NoError(t, err)

		diff := got.MerchantAmount.Add(got.PlatformFee).Sub(got.Total).Abs()
		assert.True(t, diff.LessThanOrEqual(tolerance),
			"split of %s drifted by %s", total, diff.String())
	}
}

func TestSplitString(t *testing.T) {
	calc, err := New("0.005")
	assert.NoError(t, err)

	tests := []struct {
		name    string
		total   string
		wantErr bool
	}{
		{name: "valid decimal", total: "10.5"},
		{name: "whitespace trimmed", total: " 10.5 "},
		{name: "nan rejected", total: "NaN", wantErr: true},
		{name: "inf rejected", total: "Inf", wantErr: true},
		{name: "negative inf rejected", total: "-inf", wantErr: true},
		{name: "garbage rejected", total: "ten", wantErr: true},
		{name: "empty rejected", total: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.SplitString(tt.total)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, apperror.KindInvalidAmount, apperror.KindOf(err))
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestSplitForTier(t *testing.T) {
	calc, err := NewWithTiers("0.005", map[string]string{
		"enterprise": "0.002",
	})
	assert.NoError(t, err)

	enterprise, err := calc.SplitForTier("enterprise", decimal.RequireFromString("100"))
	assert.NoError(t, err)
	assert.Equal(t, "0.2", enterprise.PlatformFee.String())

	unknown, err := calc.SplitForTier("hobby", decimal.RequireFromString("100"))
	assert.NoError(t, err)
	assert.Equal(t, "0.5", unknown.PlatformFee.String())
}

func TestNewRejectsBadRates(t *testing.T) {
	for _, rate := range []string{"1", "1.5", "-0.1", "abc", ""} {
		_, err := New(rate)
		assert.Error(t, err, "rate %q should be rejected", rate)
	}
}

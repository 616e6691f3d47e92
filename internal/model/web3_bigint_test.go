package model

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		expected string
	}{
		{
			name:     "whole coins",
			amount:   "1",
			decimals: 8,
			expected: "100000000",
		},
		{
			name:     "fractional amount",
			amount:   "99.5",
			decimals: 8,
			expected: "9950000000",
		},
		{
			name:     "sub-minor-unit truncated",
			amount:   "0.000000015",
			decimals: 8,
			expected: "1",
		},
		{
			name:     "eighteen decimals",
			amount:   "1.5",
			decimals: 18,
			expected: "1500000000000000000",
		},
		{
			name:     "zero",
			amount:   "0",
			decimals: 9,
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDecimal(decimal.RequireFromString(tt.amount), tt.decimals)
			assert.Equal(t, tt.expected, got.Value)
			assert.Equal(t, tt.decimals, got.Decimal)
		})
	}
}

func TestToDecimalRoundTrip(t *testing.T) {
	for _, amount := range []string{"1", "99.5", "0.00000001", "12345.6789"} {
		d := decimal.RequireFromString(amount)
		back := FromDecimal(d, 8).ToDecimal()
		assert.True(t, d.Equal(back), "round trip of %s gave %s", amount, back.String())
	}
}

func TestCmp(t *testing.T) {
	a := NewWeb3BigInt("100", 8)
	b := NewWeb3BigInt("200", 8)

	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(NewWeb3BigInt("100", 8)))
}

func TestScaleByRatio(t *testing.T) {
	amount := NewWeb3BigInt("1000", 9)

	scaled := amount.ScaleByRatio(big.NewInt(1), big.NewInt(3))
	assert.Equal(t, "333", scaled.Value)

	zeroDen := amount.ScaleByRatio(big.NewInt(1), big.NewInt(0))
	assert.Equal(t, "0", zeroDen.Value)
}

func TestAddSub(t *testing.T) {
	a := NewWeb3BigInt("150", 8)
	b := NewWeb3BigInt("50", 8)

	assert.Equal(t, "200", a.Add(b).Value)
	assert.Equal(t, "100", a.Sub(b).Value)
}

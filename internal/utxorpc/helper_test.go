package utxorpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTxSize(t *testing.T) {
	tests := []struct {
		name       string
		numInputs  int
		numOutputs int
		expected   int
	}{
		{
			name:       "one input two outputs",
			numInputs:  1,
			numOutputs: 2,
			expected:   226,
		},
		{
			name:       "two inputs three outputs",
			numInputs:  2,
			numOutputs: 3,
			expected:   408,
		},
		{
			name:       "no inputs or outputs",
			numInputs:  0,
			numOutputs: 0,
			expected:   10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calculateTxSize(tt.numInputs, tt.numOutputs))
		})
	}
}

func TestScaleToAfford(t *testing.T) {
	tests := []struct {
		name       string
		amounts    []int64
		affordable int64
		expected   []int64
	}{
		{
			name:       "within balance unchanged",
			amounts:    []int64{300, 200},
			affordable: 1000,
			expected:   []int64{300, 200},
		},
		{
			name:       "exact balance unchanged",
			amounts:    []int64{600, 400},
			affordable: 1000,
			expected:   []int64{600, 400},
		},
		{
			name:       "even scale down",
			amounts:    []int64{600, 400},
			affordable: 500,
			expected:   []int64{300, 200},
		},
		{
			name:       "large amounts keep proportions",
			amounts:    []int64{10_000_000_000, 10_000_000_000},
			affordable: 10_000_000_000,
			expected:   []int64{5_000_000_000, 5_000_000_000},
		},
		{
			name:       "large uneven amounts keep proportions",
			amounts:    []int64{15_000_000_000, 5_000_000_000},
			affordable: 10_000_000_000,
			expected:   []int64{7_500_000_000, 2_500_000_000},
		},
		{
			name:       "rounding remainder goes to first recipient",
			amounts:    []int64{700, 299},
			affordable: 500,
			expected:   []int64{351, 149},
		},
		{
			name:       "all zero amounts unchanged",
			amounts:    []int64{0, 0},
			affordable: 500,
			expected:   []int64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scaleToAfford(tt.amounts, tt.affordable)
			assert.Equal(t, tt.expected, got)

			var total, sum int64
			for _, a := range tt.amounts {
				total += a
			}
			for _, s := range got {
				sum += s
			}
			if total > tt.affordable && total > 0 {
				assert.Equal(t, tt.affordable, sum)
			}
		})
	}
}

func TestDropDust(t *testing.T) {
	outputs := []plannedOutput{
		{address: "a", value: 546},
		{address: "b", value: 545},
		{address: "c", value: 10000},
		{address: "d", value: 1},
	}

	kept := dropDust(outputs, 546)

	assert.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].address)
	assert.Equal(t, "c", kept[1].address)
}

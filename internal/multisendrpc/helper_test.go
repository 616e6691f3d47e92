package multisendrpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleToMax(t *testing.T) {
	tests := []struct {
		name     string
		amounts  []uint64
		max      uint64
		expected []uint64
	}{
		{
			name:     "within max unchanged",
			amounts:  []uint64{400, 500},
			max:      1000,
			expected: []uint64{400, 500},
		},
		{
			name:     "exactly max unchanged",
			amounts:  []uint64{600, 400},
			max:      1000,
			expected: []uint64{600, 400},
		},
		{
			name:     "scaled to the lamport",
			amounts:  []uint64{600, 400},
			max:      500,
			expected: []uint64{300, 200},
		},
		{
			name:     "remainder goes to first recipient",
			amounts:  []uint64{700, 299},
			max:      500,
			expected: []uint64{351, 149},
		},
		{
			name:     "zero amounts unchanged",
			amounts:  []uint64{0, 0},
			max:      500,
			expected: []uint64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleToMax(tt.amounts, tt.max)
			assert.Equal(t, tt.expected, got)

			var total, sum uint64
			for _, a := range tt.amounts {
				total += a
			}
			for _, s := range got {
				sum += s
			}
			if total > tt.max && total > 0 {
				assert.Equal(t, tt.max, sum, "scaled legs must consume max exactly")
			}
		})
	}
}

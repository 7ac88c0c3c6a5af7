package fee

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearWeightToFee(t *testing.T) {
	tests := []struct {
		name        string
		coefficient Balance
		weight      Weight
		want        Balance
	}{
		{"zero coefficient disables weight fee", 0, 1_000_000, 0},
		{"unit coefficient", 1, 5, 5},
		{"production coefficient", 50 * Nano, 1_000_000, 50_000_000},
		{"saturates", 2, Weight(math.MaxUint64), MaxBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LinearWeightToFee{Coefficient: tt.coefficient}.Fee(tt.weight))
		})
	}
}

func TestLinearWeightToFee_Monotonic(t *testing.T) {
	model := LinearWeightToFee{Coefficient: 3_000_000_007}
	weights := []Weight{0, 1, 2, 1_000, 1 << 20, 1 << 32, 6_148_914_689_804_861_440, 6_148_914_689_804_861_441, math.MaxUint64 - 1, math.MaxUint64}

	for i := 1; i < len(weights); i++ {
		assert.LessOrEqual(t, model.Fee(weights[i-1]), model.Fee(weights[i]),
			"fee(%d) > fee(%d)", weights[i-1], weights[i])
	}
}

func TestPerbill(t *testing.T) {
	assert.Equal(t, Perbill(250_000_000), PerbillFromPercent(25))
	assert.Equal(t, FullPerbill, PerbillFromPercent(150))

	assert.Equal(t, Perbill(500_000_000), PerbillFromRational(1, 2))
	assert.Equal(t, Perbill(333_333_333), PerbillFromRational(1, 3))
	assert.Equal(t, FullPerbill, PerbillFromRational(5, 0))
	assert.Equal(t, FullPerbill, PerbillFromRational(7, 3))

	assert.Equal(t, uint64(750_000_000), PerbillFromPercent(75).Mul(1_000_000_000))
	assert.Equal(t, uint64(math.MaxUint64), FullPerbill.Mul(math.MaxUint64))

	assert.Equal(t, Perbill(0), FullnessOf(0, 1_000))
	assert.Equal(t, FullPerbill, FullnessOf(1_000, 1_000))
}

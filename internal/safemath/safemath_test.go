package safemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd64(t *testing.T) {
	tests := []struct {
		name   string
		a, b   uint64
		want   uint64
		wantOk bool
	}{
		{"zero plus zero", 0, 0, 0, true},
		{"small values", 1, 2, 3, true},
		{"at boundary", math.MaxUint64 - 1, 1, math.MaxUint64, true},
		{"overflow", math.MaxUint64, 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Add64(tt.a, tt.b)
			assert.Equal(t, tt.wantOk, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMul64(t *testing.T) {
	got, ok := Mul64(1<<32, 1<<31)
	assert.True(t, ok)
	assert.Equal(t, uint64(1<<63), got)

	_, ok = Mul64(1<<32, 1<<32)
	assert.False(t, ok)
}

func TestSaturating(t *testing.T) {
	t.Run("add saturates at max", func(t *testing.T) {
		assert.Equal(t, uint64(math.MaxUint64), SaturatingAdd64(math.MaxUint64, 10))
		assert.Equal(t, uint64(15), SaturatingAdd64(5, 10))
	})
	t.Run("sub saturates at zero", func(t *testing.T) {
		assert.Equal(t, uint64(0), SaturatingSub64(5, 10))
		assert.Equal(t, uint64(5), SaturatingSub64(10, 5))
	})
	t.Run("mul saturates at max", func(t *testing.T) {
		assert.Equal(t, uint64(math.MaxUint64), SaturatingMul64(math.MaxUint64, 2))
		assert.Equal(t, uint64(50), SaturatingMul64(5, 10))
	})
	t.Run("signed add clamps", func(t *testing.T) {
		assert.Equal(t, int64(math.MaxInt64), SaturatingAddInt64(math.MaxInt64, 1))
		assert.Equal(t, int64(math.MinInt64), SaturatingAddInt64(math.MinInt64, -1))
		assert.Equal(t, int64(-3), SaturatingAddInt64(2, -5))
	})
}

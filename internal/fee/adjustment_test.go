package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultAdjustment() TargetedFeeAdjustment {
	return TargetedFeeAdjustment{
		Target:   PerbillFromPercent(25),
		Variable: DefaultAdjustmentVariable,
		Minimum:  1,
	}
}

func TestTargetedFeeAdjustment_AtTarget(t *testing.T) {
	adj := defaultAdjustment()
	for _, prev := range []Multiplier{1, One / 3, One, 7 * One, MaxMultiplier} {
		assert.Equal(t, prev, adj.Next(prev, adj.Target))
	}
}

func TestTargetedFeeAdjustment_AboveTargetIncreases(t *testing.T) {
	adj := defaultAdjustment()
	fullness := []Perbill{adj.Target + 1, adj.Target + 1_000, PerbillFromPercent(50), PerbillFromPercent(99), FullPerbill}
	for _, f := range fullness {
		for _, prev := range []Multiplier{1, One / 1_000, One, 100 * One} {
			next := adj.Next(prev, f)
			assert.Greater(t, next, prev, "fullness %d prev %s", f, prev)
		}
	}
}

func TestTargetedFeeAdjustment_BelowTargetDecreases(t *testing.T) {
	adj := defaultAdjustment()
	prev := One
	next := adj.Next(prev, PerbillFromPercent(10))
	assert.Less(t, next, prev)

	// empty block: the strongest pull down, bounded by the floor
	empty := adj.Next(prev, 0)
	assert.LessOrEqual(t, empty, next)
	assert.Greater(t, empty, Multiplier(0))
}

func TestTargetedFeeAdjustment_StepSizes(t *testing.T) {
	adj := TargetedFeeAdjustment{Target: 0, Variable: One / 10, Minimum: 1}
	// diff = 1, v = 0.1: 0.1 + 0.01/2
	assert.Equal(t, One+105_000_000, adj.Next(One, FullPerbill))

	adj.Target = FullPerbill
	// diff = -1, v = 0.1: -(0.1 - 0.005)
	assert.Equal(t, One-95_000_000, adj.Next(One, 0))
}

func TestTargetedFeeAdjustment_MonotonicResponse(t *testing.T) {
	adj := defaultAdjustment()
	prev := One
	last := adj.Next(prev, 0)
	for f := Perbill(0); f <= FullPerbill; f += 10_000_000 {
		next := adj.Next(prev, f)
		assert.GreaterOrEqual(t, next, last, "fullness %d", f)
		last = next
	}
}

func TestTargetedFeeAdjustment_Floor(t *testing.T) {
	adj := defaultAdjustment()
	adj.Minimum = 10
	assert.Equal(t, Multiplier(10), adj.Next(11, 0))
	assert.Equal(t, Multiplier(10), adj.Next(-One, adj.Target))
	assert.Equal(t, Multiplier(5), adj.Next(5, adj.Target))
	assert.Equal(t, Multiplier(10), adj.Next(5, adj.Target+1))

	// a non-positive configured minimum still keeps the multiplier positive
	adj.Minimum = 0
	assert.Equal(t, Multiplier(1), adj.Next(1, 0))
}

func TestTargetedFeeAdjustment_Ceiling(t *testing.T) {
	adj := defaultAdjustment()
	assert.Equal(t, MaxMultiplier, adj.Next(MaxMultiplier, FullPerbill))
	assert.Equal(t, MaxMultiplier, adj.Next(MaxMultiplier-1, FullPerbill))
}

func TestTargetedFeeAdjustment_Convergence(t *testing.T) {
	adj := TargetedFeeAdjustment{Target: PerbillFromPercent(25), Variable: One / 100, Minimum: One / 1_000}

	t.Run("empty blocks converge to the floor", func(t *testing.T) {
		m := One
		for i := 0; i < 10_000; i++ {
			next := adj.Next(m, 0)
			require.LessOrEqual(t, next, m)
			m = next
		}
		assert.Equal(t, adj.Minimum, m)
	})

	t.Run("full blocks keep increasing", func(t *testing.T) {
		m := One
		for i := 0; i < 1_000; i++ {
			next := adj.Next(m, FullPerbill)
			require.Greater(t, next, m)
			m = next
		}
	})

	t.Run("blocks at target are stable", func(t *testing.T) {
		m := One
		for i := 0; i < 1_000; i++ {
			m = adj.Next(m, adj.Target)
		}
		assert.Equal(t, One, m)
	})
}

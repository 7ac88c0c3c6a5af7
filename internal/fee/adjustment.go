package fee

import (
	"github.com/holiman/uint256"

	"github.com/eigerco/txcore/internal/safemath"
)

// DefaultAdjustmentVariable is the proportional gain v = 0.00004
var DefaultAdjustmentVariable = MultiplierFromRational(4, 100_000)

// TargetedFeeAdjustment moves the fee multiplier towards the value that keeps
// blocks at the Target fullness.
//
// With diff = fullness - target and v = Variable the step is
//
//	 v*|diff| + (v^2/2)*diff^2   when diff > 0
//	-v*|diff| + (v^2/2)*diff^2   when diff < 0
//
// so that the correction is gentle near the target and stronger at the
// extremes. The result never drops below Minimum, which is always positive.
type TargetedFeeAdjustment struct {
	Target   Perbill
	Variable Multiplier
	Minimum  Multiplier
}

// Next returns the multiplier for the following block given the fullness of
// the block that just ended.
func (a TargetedFeeAdjustment) Next(prev Multiplier, fullness Perbill) Multiplier {
	if fullness > FullPerbill {
		fullness = FullPerbill
	}
	target := a.Target
	if target > FullPerbill {
		target = FullPerbill
	}
	// no change at target, even below a raised Minimum
	if fullness == target && prev > 0 {
		return prev
	}
	if fullness == target {
		return a.clamp(prev)
	}

	positive := fullness > target
	var diff uint64
	if positive {
		diff = uint64(fullness - target)
	} else {
		diff = uint64(target - fullness)
	}

	first, second := a.terms(diff)
	if positive {
		step := new(uint256.Int).Add(first, second)
		adj := toInt64(step)
		// even the smallest excess over the target has to raise the multiplier
		if adj == 0 {
			adj = 1
		}
		return a.clamp(Multiplier(safemath.SaturatingAddInt64(int64(prev), adj)))
	}

	// second <= first whenever v <= 1 and |diff| <= 1
	step := new(uint256.Int).Sub(first, second)
	return a.clamp(Multiplier(safemath.SaturatingAddInt64(int64(prev), -toInt64(step))))
}

// terms computes v*d and (v^2/2)*d^2 in multiplier units.
func (a TargetedFeeAdjustment) terms(diff uint64) (*uint256.Int, *uint256.Int) {
	v := a.Variable
	if v < 0 {
		v = 0
	}
	if v > One {
		v = One
	}
	acc := uint256.NewInt(uint64(Accuracy))

	// v*d / A
	first := new(uint256.Int).Mul(uint256.NewInt(uint64(v)), uint256.NewInt(diff))
	first.Div(first, acc)

	// (v*d)^2 / (2*A^3)
	second := new(uint256.Int).Mul(uint256.NewInt(uint64(v)), uint256.NewInt(diff))
	second.Mul(second, second)
	denom := new(uint256.Int).Mul(acc, acc)
	denom.Mul(denom, acc)
	denom.Lsh(denom, 1)
	second.Div(second, denom)

	return first, second
}

func (a TargetedFeeAdjustment) clamp(m Multiplier) Multiplier {
	floor := a.Minimum
	if floor <= 0 {
		floor = 1
	}
	if m < floor {
		return floor
	}
	return m
}

func toInt64(x *uint256.Int) int64 {
	if !x.IsUint64() || x.Uint64() > uint64(MaxMultiplier) {
		return int64(MaxMultiplier)
	}
	return int64(x.Uint64())
}

package fee

import (
	"math"
	"math/bits"

	"github.com/eigerco/txcore/internal/safemath"
)

// Weight is the abstract computational cost of an operation.
type Weight uint64

// Balance is an amount in the smallest currency unit.
type Balance uint64

const MaxBalance = Balance(math.MaxUint64)

// Currency denominations.
const (
	Nano  Balance = 1
	Micro         = 1_000 * Nano
	Milli         = 1_000 * Micro
	Coin          = 1_000 * Milli
)

func (b Balance) SaturatingAdd(o Balance) Balance {
	return Balance(safemath.SaturatingAdd64(uint64(b), uint64(o)))
}

func (b Balance) SaturatingSub(o Balance) Balance {
	return Balance(safemath.SaturatingSub64(uint64(b), uint64(o)))
}

func (b Balance) SaturatingMul(o Balance) Balance {
	return Balance(safemath.SaturatingMul64(uint64(b), uint64(o)))
}

// CheckedAdd returns b+o and false on overflow.
func (b Balance) CheckedAdd(o Balance) (Balance, bool) {
	v, ok := safemath.Add64(uint64(b), uint64(o))
	return Balance(v), ok
}

// CheckedSub returns b-o and false on underflow.
func (b Balance) CheckedSub(o Balance) (Balance, bool) {
	v, ok := safemath.Sub64(uint64(b), uint64(o))
	return Balance(v), ok
}

func (w Weight) SaturatingAdd(o Weight) Weight {
	return Weight(safemath.SaturatingAdd64(uint64(w), uint64(o)))
}

// Perbill is a ratio expressed in parts per billion.
type Perbill uint32

const (
	PerbillAccuracy         = 1_000_000_000
	FullPerbill     Perbill = PerbillAccuracy
)

// PerbillFromPercent converts a percentage, capped at 100.
func PerbillFromPercent(p uint32) Perbill {
	if p >= 100 {
		return FullPerbill
	}
	return Perbill(p * (PerbillAccuracy / 100))
}

// PerbillFromRational returns floor(n/d) in parts per billion, saturating at
// one. A zero denominator yields one.
func PerbillFromRational(n, d uint64) Perbill {
	if d == 0 || n >= d {
		return FullPerbill
	}
	hi, lo := bits.Mul64(n, PerbillAccuracy)
	// n < d guarantees hi < d
	q, _ := bits.Div64(hi, lo, d)
	return Perbill(q)
}

// Mul returns floor(x * p).
func (p Perbill) Mul(x uint64) uint64 {
	if p >= FullPerbill {
		return x
	}
	hi, lo := bits.Mul64(x, uint64(p))
	q, _ := bits.Div64(hi, lo, PerbillAccuracy)
	return q
}

// FullnessOf is the block fullness given its consumed and maximum weight.
func FullnessOf(consumed, max Weight) Perbill {
	return PerbillFromRational(uint64(consumed), uint64(max))
}

package extrinsic

import "math"

// BlockNumber is the height of a block.
type BlockNumber uint64

const (
	MinEraPeriod uint64 = 4
	MaxEraPeriod uint64 = 1 << 16
)

// Era is the window of blocks in which a transaction may be included.
// A zero Period means the transaction is immortal.
type Era struct {
	Birth  BlockNumber
	Period uint64
}

// ImmortalEra never expires.
var ImmortalEra = Era{}

// MortalEra creates an era born at current, lasting period blocks. The period
// is rounded up to a power of two within [MinEraPeriod, MaxEraPeriod].
func MortalEra(period uint64, current BlockNumber) Era {
	p := MinEraPeriod
	for p < period && p < MaxEraPeriod {
		p <<= 1
	}
	return Era{Birth: current, Period: p}
}

func (e Era) IsImmortal() bool {
	return e.Period == 0
}

// Death is the first block at which the era is no longer valid.
func (e Era) Death() BlockNumber {
	if e.IsImmortal() || uint64(e.Birth) > math.MaxUint64-e.Period {
		return math.MaxUint64
	}
	return e.Birth + BlockNumber(e.Period)
}

// IsFuture reports whether n is before the era's birth.
func (e Era) IsFuture(n BlockNumber) bool {
	return !e.IsImmortal() && n < e.Birth
}

// IsStale reports whether n is at or after the era's death.
func (e Era) IsStale(n BlockNumber) bool {
	return !e.IsImmortal() && n >= e.Death()
}

// Longevity is the number of blocks, counted from n, for which the era stays
// valid.
func (e Era) Longevity(n BlockNumber) uint64 {
	if e.IsImmortal() {
		return math.MaxUint64
	}
	if n >= e.Death() {
		return 0
	}
	return uint64(e.Death() - n)
}

package fee

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"
)

// Accuracy is the number of multiplier units that make up 1.0
const Accuracy int64 = 1_000_000_000

// Multiplier is a signed fixed-point ratio with Accuracy units per one,
// applied to the weight portion of every fee.
type Multiplier int64

const (
	One           = Multiplier(Accuracy)
	MaxMultiplier = Multiplier(math.MaxInt64)
)

// MultiplierFromRational returns n/d truncated towards zero. It panics on a
// zero denominator, which is always a programming error.
func MultiplierFromRational(n, d int64) Multiplier {
	if d == 0 {
		panic("fee: zero denominator")
	}
	num := new(uint256.Int).Mul(abs256(n), uint256.NewInt(uint64(Accuracy)))
	num.Div(num, abs256(d))
	if !num.IsUint64() || num.Uint64() > math.MaxInt64 {
		if (n < 0) != (d < 0) {
			return Multiplier(math.MinInt64)
		}
		return MaxMultiplier
	}
	if (n < 0) != (d < 0) {
		return -Multiplier(num.Uint64())
	}
	return Multiplier(num.Uint64())
}

// Apply scales b by the multiplier, rounding down. Non-positive multipliers
// yield zero and the result saturates at MaxBalance.
func (m Multiplier) Apply(b Balance) Balance {
	if m <= 0 || b == 0 {
		return 0
	}
	v := new(uint256.Int).Mul(uint256.NewInt(uint64(b)), uint256.NewInt(uint64(m)))
	v.Div(v, uint256.NewInt(uint64(Accuracy)))
	if !v.IsUint64() {
		return MaxBalance
	}
	return Balance(v.Uint64())
}

func (m Multiplier) String() string {
	sign := ""
	u := uint64(m)
	if m < 0 {
		sign = "-"
		u = uint64(-(m + 1)) + 1
	}
	return fmt.Sprintf("%s%d.%09d", sign, u/uint64(Accuracy), u%uint64(Accuracy))
}

func abs256(x int64) *uint256.Int {
	if x < 0 {
		return uint256.NewInt(uint64(-(x + 1)) + 1)
	}
	return uint256.NewInt(uint64(x))
}

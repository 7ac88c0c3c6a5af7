package reward

import (
	"github.com/holiman/uint256"

	"github.com/eigerco/txcore/internal/fee"
)

// Split divides amount into floor(amount*p/(p+q)) and the remainder, so the
// two parts always add up to amount. Zero total parts assign everything to
// the second part.
func Split(amount fee.Balance, p, q uint32) (fee.Balance, fee.Balance) {
	total := uint64(p) + uint64(q)
	if total == 0 {
		return 0, amount
	}
	first := mulDiv(amount, uint64(p), total)
	return first, amount - first
}

// Shares divides amount in proportion to parts. Every share but the last is
// rounded down and the last one receives whatever remains.
func Shares(amount fee.Balance, parts []uint32) []fee.Balance {
	if len(parts) == 0 {
		return nil
	}
	var total uint64
	for _, p := range parts {
		total += uint64(p)
	}

	out := make([]fee.Balance, len(parts))
	remaining := amount
	for i := 0; i < len(parts)-1; i++ {
		if total == 0 {
			break
		}
		out[i] = mulDiv(amount, uint64(parts[i]), total)
		remaining -= out[i]
	}
	out[len(parts)-1] = remaining
	return out
}

// mulDiv returns floor(a*n/d) for n <= d, which always fits in a Balance.
func mulDiv(a fee.Balance, n, d uint64) fee.Balance {
	v := new(uint256.Int).Mul(uint256.NewInt(uint64(a)), uint256.NewInt(n))
	v.Div(v, uint256.NewInt(d))
	return fee.Balance(v.Uint64())
}

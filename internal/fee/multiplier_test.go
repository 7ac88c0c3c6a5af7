package fee

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestMultiplier_Apply(t *testing.T) {
	tests := []struct {
		name string
		m    Multiplier
		b    Balance
		want Balance
	}{
		{"identity", One, 16, 16},
		{"half rounds down", One / 2, 5, 2},
		{"double", 2 * One, 21, 42},
		{"zero", 0, 100, 0},
		{"negative", -One, 100, 0},
		{"saturates", MaxMultiplier, MaxBalance, MaxBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt.Assert(t, qt.Equals(tt.m.Apply(tt.b), tt.want))
		})
	}
}

func TestMultiplierFromRational(t *testing.T) {
	qt.Assert(t, qt.Equals(MultiplierFromRational(4, 100_000), Multiplier(40_000)))
	qt.Assert(t, qt.Equals(MultiplierFromRational(-1, 2), -One/2))
	qt.Assert(t, qt.Equals(MultiplierFromRational(3, 1), 3*One))
}

func TestMultiplier_String(t *testing.T) {
	qt.Assert(t, qt.Equals(One.String(), "1.000000000"))
	qt.Assert(t, qt.Equals((One/4).String(), "0.250000000"))
	qt.Assert(t, qt.Equals((-One - 5).String(), "-1.000000005"))
}

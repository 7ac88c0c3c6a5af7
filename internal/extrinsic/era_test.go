package extrinsic

import (
	"math"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestMortalEra_Period(t *testing.T) {
	tests := []struct {
		period uint64
		want   uint64
	}{
		{0, 4},
		{3, 4},
		{4, 4},
		{5, 8},
		{256, 256},
		{257, 512},
		{1 << 20, 1 << 16},
	}
	for _, tt := range tests {
		qt.Check(t, qt.Equals(MortalEra(tt.period, 10).Period, tt.want))
	}
}

func TestEra_Window(t *testing.T) {
	e := MortalEra(64, 100)

	qt.Assert(t, qt.Equals(e.Death(), BlockNumber(164)))
	qt.Assert(t, qt.IsTrue(e.IsFuture(99)))
	qt.Assert(t, qt.IsFalse(e.IsFuture(100)))
	qt.Assert(t, qt.IsFalse(e.IsStale(163)))
	qt.Assert(t, qt.IsTrue(e.IsStale(164)))

	qt.Assert(t, qt.Equals(e.Longevity(100), uint64(64)))
	qt.Assert(t, qt.Equals(e.Longevity(163), uint64(1)))
	qt.Assert(t, qt.Equals(e.Longevity(200), uint64(0)))
}

func TestEra_Immortal(t *testing.T) {
	qt.Assert(t, qt.IsTrue(ImmortalEra.IsImmortal()))
	qt.Assert(t, qt.IsFalse(ImmortalEra.IsFuture(0)))
	qt.Assert(t, qt.IsFalse(ImmortalEra.IsStale(math.MaxUint64)))
	qt.Assert(t, qt.Equals(ImmortalEra.Longevity(5), uint64(math.MaxUint64)))
}

func TestEra_DeathSaturates(t *testing.T) {
	e := Era{Birth: math.MaxUint64 - 2, Period: 8}
	qt.Assert(t, qt.Equals(e.Death(), BlockNumber(math.MaxUint64)))
}

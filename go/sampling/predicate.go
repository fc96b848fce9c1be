package sampling

import (
	"fmt"
	"math"
)

// Predicate decides whether the i-th element of a sequence should be sampled.
//
// Implementations are immutable values: the verdict for an index depends
// only on the index and the parameter the predicate was built with.
type Predicate interface {
	Decide(i uint32) bool

	// Rate is the exact fraction of indices (over a full period) that
	// Decide selects. It may differ from the rate the caller asked for.
	Rate() float64
	Name() string
}

// ModPredicate selects every m-th index.
//
// This is the exact baseline: it selects precisely 1/m of the indices, evenly
// spaced, but pays for a remainder on every call.
type ModPredicate struct {
	m uint32
}

// NewModPredicate panics if m is zero.
func NewModPredicate(m uint32) ModPredicate {
	if m == 0 {
		panic("sampling: ModPredicate with zero modulus")
	}
	return ModPredicate{m}
}

func (p ModPredicate) Decide(i uint32) bool { return i%p.m == 0 }
func (p ModPredicate) Rate() float64        { return 1 / float64(p.m) }
func (p ModPredicate) Name() string         { return "ModPredicate" }
func (p ModPredicate) Modulus() uint32      { return p.m }

var _ Predicate = ModPredicate{}

// PowerOfTwoPredicate selects every 2^l-th index using a mask instead of a
// remainder. Only rates of the form 1/2^l can be expressed; callers must round
// other rates before construction.
type PowerOfTwoPredicate struct {
	k uint32
}

// MaxShift is the largest shift accepted by NewPowerOfTwoPredicate.
const MaxShift = 31

// NewPowerOfTwoPredicate panics if l > MaxShift.
func NewPowerOfTwoPredicate(l uint) PowerOfTwoPredicate {
	if l > MaxShift {
		panic(fmt.Errorf("sampling: PowerOfTwoPredicate shift %d exceeds %d", l, MaxShift))
	}
	return PowerOfTwoPredicate{k: (uint32(1) << l) - 1}
}

func (p PowerOfTwoPredicate) Decide(i uint32) bool { return i&p.k == 0 }
func (p PowerOfTwoPredicate) Rate() float64        { return 1 / (float64(p.k) + 1) }
func (p PowerOfTwoPredicate) Name() string         { return "PowerOfTwoPredicate" }
func (p PowerOfTwoPredicate) Mask() uint32         { return p.k }

var _ Predicate = PowerOfTwoPredicate{}

// FloatPredicate approximates sampling with probability q.
//
// The index is bit-reversed and compared against a fixed threshold. Bit
// reversal spreads consecutive indices over the whole 32-bit range, so nearby
// indices get decorrelated verdicts without any random state. The realized
// rate is k/2^32 where k = floor(0xFFFFFFFF * q).
//
// With q = 1 every index except 0xFFFFFFFF is selected.
type FloatPredicate struct {
	k uint32
}

// NewFloatPredicate panics unless 0 <= q <= 1.
func NewFloatPredicate(q float64) FloatPredicate {
	return FloatPredicate{k: threshold("FloatPredicate", q)}
}

func (p FloatPredicate) Decide(i uint32) bool { return RevBits(i) < p.k }
func (p FloatPredicate) Rate() float64        { return float64(p.k) / (1 << 32) }
func (p FloatPredicate) Name() string         { return "FloatPredicate" }
func (p FloatPredicate) Threshold() uint32    { return p.k }

var _ Predicate = FloatPredicate{}

func threshold(name string, q float64) uint32 {
	if math.IsNaN(q) || q < 0 || 1 < q {
		panic(fmt.Errorf("sampling: %s probability %g not in [0, 1]", name, q))
	}
	return uint32(math.MaxUint32 * q)
}

// RevBits reverses the order of the 32 bits of v.
func RevBits(v uint32) uint32 {
	v = ((v >> 1) & 0x55555555) | ((v & 0x55555555) << 1)
	v = ((v >> 2) & 0x33333333) | ((v & 0x33333333) << 2)
	v = ((v >> 4) & 0x0F0F0F0F) | ((v & 0x0F0F0F0F) << 4)
	v = ((v >> 8) & 0x00FF00FF) | ((v & 0x00FF00FF) << 8)
	return (v >> 16) | (v << 16)
}

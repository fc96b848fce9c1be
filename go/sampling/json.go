package sampling

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	KindMod   = "mod"
	KindPow2  = "pow2"
	KindFloat = "float"
	KindHash  = "hash"
)

// Factory describes a Predicate in config files and on the command line.
//
// Only the field matching Kind is used: Modulus for "mod", Shift for "pow2"
// and Prob for "float" and "hash".
type Factory struct {
	Kind    string  `json:"kind"`
	Modulus uint32  `json:"modulus,omitempty"`
	Shift   uint    `json:"shift,omitempty"`
	Prob    float64 `json:"prob,omitempty"`
}

func Mod(m uint32) Factory      { return Factory{Kind: KindMod, Modulus: m} }
func PowerOfTwo(l uint) Factory { return Factory{Kind: KindPow2, Shift: l} }
func Float(q float64) Factory   { return Factory{Kind: KindFloat, Prob: q} }
func Hash(q float64) Factory    { return Factory{Kind: KindHash, Prob: q} }

var errUnknownKind = errors.New("unknown predicate kind")

func (f Factory) Validate() error {
	switch f.Kind {
	case KindMod:
		if f.Modulus == 0 {
			return errors.New("mod: modulus must be positive")
		}
	case KindPow2:
		if f.Shift > MaxShift {
			return fmt.Errorf("pow2: shift %d exceeds %d", f.Shift, MaxShift)
		}
	case KindFloat, KindHash:
		if math.IsNaN(f.Prob) || f.Prob < 0 || 1 < f.Prob {
			return fmt.Errorf("%s: probability %g not in [0, 1]", f.Kind, f.Prob)
		}
	default:
		return fmt.Errorf("%w %q", errUnknownKind, f.Kind)
	}
	return nil
}

// New validates f and builds the predicate it describes.
func (f Factory) New() (Predicate, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	switch f.Kind {
	case KindMod:
		return NewModPredicate(f.Modulus), nil
	case KindPow2:
		return NewPowerOfTwoPredicate(f.Shift), nil
	case KindFloat:
		return NewFloatPredicate(f.Prob), nil
	case KindHash:
		return NewHashPredicate(f.Prob), nil
	}
	panic("unreachable")
}

// NominalRate is the rate the caller asked for, before any rounding done by
// the predicate.
func (f Factory) NominalRate() float64 {
	switch f.Kind {
	case KindMod:
		return 1 / float64(f.Modulus)
	case KindPow2:
		return 1 / float64(uint64(1)<<f.Shift)
	}
	return f.Prob
}

func (f Factory) String() string {
	switch f.Kind {
	case KindMod:
		return KindMod + ":" + strconv.FormatUint(uint64(f.Modulus), 10)
	case KindPow2:
		return KindPow2 + ":" + strconv.FormatUint(uint64(f.Shift), 10)
	}
	return f.Kind + ":" + strconv.FormatFloat(f.Prob, 'g', -1, 64)
}

// ParseFactory parses specs of the form kind:param, e.g. "mod:16", "pow2:4",
// "float:0.0625" or "hash:0.1".
func ParseFactory(s string) (Factory, error) {
	kind, param, ok := strings.Cut(s, ":")
	if !ok {
		return Factory{}, fmt.Errorf("bad predicate spec %q: want kind:param", s)
	}
	f := Factory{Kind: kind}
	var err error
	switch kind {
	case KindMod:
		var m uint64
		m, err = strconv.ParseUint(param, 10, 32)
		f.Modulus = uint32(m)
	case KindPow2:
		var l uint64
		l, err = strconv.ParseUint(param, 10, 8)
		f.Shift = uint(l)
	case KindFloat, KindHash:
		f.Prob, err = strconv.ParseFloat(param, 64)
	default:
		return Factory{}, fmt.Errorf("bad predicate spec %q: %w %q", s, errUnknownKind, kind)
	}
	if err != nil {
		return Factory{}, fmt.Errorf("bad predicate spec %q: %w", s, err)
	}
	if err := f.Validate(); err != nil {
		return Factory{}, fmt.Errorf("bad predicate spec %q: %w", s, err)
	}
	return f, nil
}

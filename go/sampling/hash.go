package sampling

import (
	"encoding/binary"

	xxhash "github.com/cespare/xxhash/v2"
)

// HashPredicate selects indices whose hash falls below a threshold.
//
// It is a reference point for FloatPredicate: both scatter consecutive
// indices, but HashPredicate pays for a real hash on every call.
type HashPredicate struct {
	k uint32
}

// NewHashPredicate panics unless 0 <= q <= 1.
func NewHashPredicate(q float64) HashPredicate {
	return HashPredicate{k: threshold("HashPredicate", q)}
}

func sum32(i uint32) uint32 {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], i)
	t := xxhash.Sum64(b[:])
	return uint32(t) ^ uint32(t>>32)
}

func (p HashPredicate) Decide(i uint32) bool { return sum32(i) < p.k }
func (p HashPredicate) Rate() float64        { return float64(p.k) / (1 << 32) }
func (p HashPredicate) Name() string         { return "HashPredicate" }
func (p HashPredicate) Threshold() uint32    { return p.k }

var _ Predicate = HashPredicate{}

// Package workload provides cheap, observable work for benchmark loops.
package workload

// DummyValues is a wrapping counter over [0, 31].
//
// Benchmarks fold its output into a checksum so that the code guarded by a
// sampling decision cannot be optimized away. It is not safe for concurrent
// use.
type DummyValues struct {
	v uint32
}

const dummyMask = 0x1f

func NewDummyValues() *DummyValues { return &DummyValues{v: 1} }

// Next advances the counter and returns its new value.
func (d *DummyValues) Next() uint32 {
	d.v = (d.v + 1) & dummyMask
	return d.v
}

// Value returns the current value without advancing.
func (d *DummyValues) Value() uint32 { return d.v }

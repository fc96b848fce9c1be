// Package bench times sampling predicates against a fixed workload.
package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/uluyol/fastsample/go/sampling"
	"github.com/uluyol/fastsample/go/workload"
)

// Result is the outcome of timing one predicate over N indices.
type Result struct {
	Label   string        `json:"label"`
	N       uint32        `json:"n"`
	Sum     uint64        `json:"sum"`
	Elapsed time.Duration `json:"elapsedNs"`
}

// Millis returns the elapsed time in whole milliseconds.
func (r Result) Millis() int64 { return r.Elapsed.Milliseconds() }

// Throughput returns millions of indices processed per second.
// It is zero if no time elapsed.
func (r Result) Throughput() float64 {
	us := float64(r.Elapsed) / float64(time.Microsecond)
	if us <= 0 {
		return 0
	}
	return float64(r.N) / us
}

func (r Result) WriteReport(w io.Writer) error {
	_, err := fmt.Fprintf(w, "  res: %d time=%d ms (%g M samples/sec)\n", r.Sum, r.Millis(), r.Throughput())
	return err
}

// Run evaluates p on indices [0, n) and returns the sum of the workload
// values drawn for every selected index.
//
// Run is generic so that the predicate call is direct when P is a concrete
// type. The result depends only on p and n.
func Run[P sampling.Predicate](p P, n uint32) uint64 {
	var sum uint64
	rnd := workload.NewDummyValues()
	for i := uint32(0); i < n; i++ {
		if p.Decide(i) {
			sum += uint64(rnd.Next())
		}
	}
	return sum
}

func runPredicate(p sampling.Predicate, n uint32) uint64 {
	switch p := p.(type) {
	case sampling.ModPredicate:
		return Run(p, n)
	case sampling.PowerOfTwoPredicate:
		return Run(p, n)
	case sampling.FloatPredicate:
		return Run(p, n)
	case sampling.HashPredicate:
		return Run(p, n)
	}
	return Run(p, n)
}

// Harness times Run with an injectable clock.
type Harness struct {
	Clock clockwork.Clock
}

func NewHarness() *Harness {
	return &Harness{Clock: clockwork.NewRealClock()}
}

// Bench runs p over [0, n). The clock is read immediately before and after
// the loop.
func (h *Harness) Bench(label string, p sampling.Predicate, n uint32) Result {
	start := h.Clock.Now()
	sum := runPredicate(p, n)
	end := h.Clock.Now()

	return Result{
		Label:   label,
		N:       n,
		Sum:     sum,
		Elapsed: end.Sub(start),
	}
}

package flagtypes

import (
	"flag"

	"github.com/uluyol/fastsample/go/sampling"
)

// Predicate is a flag holding a predicate spec such as "mod:16" or
// "float:0.1".
type Predicate struct {
	F  sampling.Factory
	OK bool
}

func (p *Predicate) String() string {
	if !p.OK {
		return ""
	}
	return p.F.String()
}

func (p *Predicate) Set(s string) error {
	f, err := sampling.ParseFactory(s)
	if err != nil {
		return err
	}
	p.F = f
	p.OK = true
	return nil
}

var _ flag.Value = new(Predicate)

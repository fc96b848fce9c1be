package bench

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fortio.org/fortio/log"
	"github.com/ghodss/yaml"
	"github.com/uluyol/fastsample/go/sampling"
)

// DefaultN is the number of indices each default case runs over.
const DefaultN = 100_000_000

type Case struct {
	Label     string           `json:"label"`
	Predicate sampling.Factory `json:"predicate"`
	N         uint32           `json:"numIndices"`
}

// Suite is a sequence of cases run in order, each Reps times.
//
// N is used for cases that do not set their own.
type Suite struct {
	Reps  int    `json:"reps"`
	N     uint32 `json:"numIndices"`
	Cases []Case `json:"cases"`
}

// DefaultSuite returns the reference run: three predicate kinds at 1/16,
// then 1/10 and 3.456%.
func DefaultSuite() Suite {
	return Suite{
		Reps: 1,
		N:    DefaultN,
		Cases: []Case{
			{Label: "ModPredicate(1/16)", Predicate: sampling.Mod(16)},
			{Label: "PowerOfTwoPredicate(1/16)", Predicate: sampling.PowerOfTwo(4)},
			{Label: "FloatPredicate(1/16)", Predicate: sampling.Float(1.0 / 16)},
			{Label: "ModPredicate(1/10)", Predicate: sampling.Mod(10)},
			{Label: "FloatPredicate(1/10)", Predicate: sampling.Float(0.1)},
			{Label: "FloatPredicate(3.456%)", Predicate: sampling.Float(0.03456)},
		},
	}
}

// CaseN returns the number of indices c runs over in s.
func (s Suite) CaseN(c Case) uint32 {
	if c.N != 0 {
		return c.N
	}
	return s.N
}

// CaseLabel returns c's label, deriving one from the predicate if unset.
func CaseLabel(c Case) string {
	if c.Label != "" {
		return c.Label
	}
	return c.Predicate.String()
}

// WithN returns a copy of s with every case running over n indices.
func (s Suite) WithN(n uint32) Suite {
	cases := make([]Case, len(s.Cases))
	for i, c := range s.Cases {
		c.N = n
		cases[i] = c
	}
	s.N = n
	s.Cases = cases
	return s
}

func (s Suite) Validate() error {
	if len(s.Cases) == 0 {
		return errors.New("suite has no cases")
	}
	if s.Reps < 1 {
		return fmt.Errorf("reps must be positive, got %d", s.Reps)
	}
	for i, c := range s.Cases {
		if s.CaseN(c) == 0 {
			return fmt.Errorf("case %d (%s): n must be positive", i, CaseLabel(c))
		}
		if err := c.Predicate.Validate(); err != nil {
			return fmt.Errorf("case %d (%s): %w", i, CaseLabel(c), err)
		}
	}
	return nil
}

// ParseSuite decodes a YAML (or JSON) suite. Reps defaults to 1 and N to
// DefaultN. N is spelled numIndices: YAML 1.1 reads a bare n as false.
func ParseSuite(data []byte) (Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Suite{}, fmt.Errorf("failed to decode suite: %w", err)
	}
	if s.Reps == 0 {
		s.Reps = 1
	}
	if s.N == 0 {
		s.N = DefaultN
	}
	if err := s.Validate(); err != nil {
		return Suite{}, fmt.Errorf("invalid suite: %w", err)
	}
	return s, nil
}

func LoadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("failed to read suite: %w", err)
	}
	return ParseSuite(data)
}

// Observer receives every result produced by Suite.Run.
type Observer interface {
	Observe(Result) error
}

// Run executes the cases of s in order. For each case it writes a label line
// to w followed by one report line per repetition. obs may be nil.
func (s Suite) Run(h *Harness, w io.Writer, obs Observer) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, c := range s.Cases {
		label := CaseLabel(c)
		n := s.CaseN(c)
		p, err := c.Predicate.New()
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		log.LogVf("running %s (%s, exact rate %g) over %d indices", label, c.Predicate, p.Rate(), n)
		if _, err := fmt.Fprintf(w, "%s: \n", label); err != nil {
			return err
		}
		for rep := 0; rep < s.Reps; rep++ {
			r := h.Bench(label, p, n)
			if err := r.WriteReport(w); err != nil {
				return err
			}
			if obs != nil {
				if err := obs.Observe(r); err != nil {
					return fmt.Errorf("failed to record result for %s: %w", label, err)
				}
			}
		}
	}
	return nil
}

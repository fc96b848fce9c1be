package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fortio.org/fortio/log"
	"github.com/google/subcommands"
	"github.com/uluyol/fastsample/go/bench"
	"github.com/uluyol/fastsample/go/printsum"
)

type rateRow struct {
	Label    string
	Nominal  float64
	Exact    float64
	Observed float64
}

func measureRates(suite bench.Suite, n uint32) ([]rateRow, error) {
	rows := make([]rateRow, 0, len(suite.Cases))
	for _, c := range suite.Cases {
		p, err := c.Predicate.New()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", bench.CaseLabel(c), err)
		}
		rows = append(rows, rateRow{
			Label:    bench.CaseLabel(c),
			Nominal:  c.Predicate.NominalRate(),
			Exact:    p.Rate(),
			Observed: float64(selected(p, n).GetCardinality()) / float64(n),
		})
	}
	return rows, nil
}

type ratesCmd struct {
	configPath string
	n          uint
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "compare nominal, exact and observed selection rates" }
func (*ratesCmd) Usage() string    { return "rates [-c suite.yaml] [-n N]\n\n" }

func (c *ratesCmd) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "c", "", "path to suite config (yaml); default suite if empty")
	fs.UintVar(&c.n, "n", 1<<20, "number of indices to observe")
}

func (c *ratesCmd) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.n == 0 || c.n > 1<<30 {
		fs.Usage()
		return subcommands.ExitUsageError
	}
	suite := bench.DefaultSuite()
	if c.configPath != "" {
		var err error
		if suite, err = bench.LoadSuite(c.configPath); err != nil {
			log.Errf("%v", err)
			return subcommands.ExitUsageError
		}
	}
	rows, err := measureRates(suite, uint32(c.n))
	if err != nil {
		log.Errf("%v", err)
		return subcommands.ExitFailure
	}
	for _, r := range rows {
		printsum.Fprint(os.Stdout, r.Label+":", []printsum.KV{
			{Key: "nominal", Verb: "%.6f", Val: r.Nominal},
			{Key: "exact", Verb: "%.6f", Val: r.Exact},
			{Key: "observed", Verb: "%.6f", Val: r.Observed},
		})
	}
	return subcommands.ExitSuccess
}

var _ subcommands.Command = new(ratesCmd)

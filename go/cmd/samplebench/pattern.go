package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"fortio.org/fortio/log"
	"github.com/RoaringBitmap/roaring"
	"github.com/google/subcommands"
	"github.com/uluyol/fastsample/go/cmd/flagtypes"
	"github.com/uluyol/fastsample/go/printsum"
	"github.com/uluyol/fastsample/go/sampling"
)

func selected(p sampling.Predicate, n uint32) *roaring.Bitmap {
	b := roaring.New()
	for i := uint32(0); i < n; i++ {
		if p.Decide(i) {
			b.Add(i)
		}
	}
	return b
}

func writePattern(w io.Writer, f sampling.Factory, n uint32, width int) error {
	p, err := f.New()
	if err != nil {
		return err
	}
	b := selected(p, n)
	_, err = fmt.Fprintf(w, "%s(%s): selected %d of %d (exact rate %g)\n%s",
		p.Name(), f, b.GetCardinality(), n, p.Rate(), printsum.BitmapString(b, int(n), width))
	return err
}

type patternCmd struct {
	pred  flagtypes.Predicate
	n     uint
	width int
}

func (*patternCmd) Name() string     { return "pattern" }
func (*patternCmd) Synopsis() string { return "show which indices a predicate selects" }
func (*patternCmd) Usage() string    { return "pattern -p kind:param [-n 256] [-w 64]\n\n" }

func (c *patternCmd) SetFlags(fs *flag.FlagSet) {
	fs.Var(&c.pred, "p", "predicate spec (mod:M, pow2:L, float:Q or hash:Q)")
	fs.UintVar(&c.n, "n", 256, "number of indices to show")
	fs.IntVar(&c.width, "w", 64, "indices per line")
}

func (c *patternCmd) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if !c.pred.OK || c.n > 1<<24 {
		fs.Usage()
		return subcommands.ExitUsageError
	}
	if err := writePattern(os.Stdout, c.pred.F, uint32(c.n), c.width); err != nil {
		log.Errf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var _ subcommands.Command = new(patternCmd)

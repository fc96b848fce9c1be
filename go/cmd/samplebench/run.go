package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"fortio.org/fortio/log"
	"github.com/google/renameio"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/uluyol/fastsample/go/bench"
	"github.com/uluyol/fastsample/go/stats"
)

// atomicFile replaces the destination only when closed successfully.
type atomicFile struct {
	*renameio.PendingFile
}

func (f atomicFile) Close() error { return f.CloseAtomicallyReplace() }

func runSuite(suite bench.Suite, outPath string, w io.Writer) error {
	var out io.WriteCloser
	if outPath != "" {
		pf, err := renameio.TempFile(filepath.Dir(outPath), outPath)
		if err != nil {
			return fmt.Errorf("failed to create results file: %w", err)
		}
		defer pf.Cleanup()
		if err := pf.Chmod(0o644); err != nil {
			return fmt.Errorf("failed to set results file mode: %w", err)
		}
		out = atomicFile{pf}
	}

	rec := stats.NewRecorder(out)
	info := stats.RunInfo{
		RunID:   uuid.New().String(),
		Command: shellquote.Join(os.Args...),
		Start:   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := rec.WriteRunInfo(info); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}
	log.LogVf("run %s: %d cases, %d reps", info.RunID, len(suite.Cases), suite.Reps)

	// On failure the deferred Cleanup discards the partial results and
	// leaves any previous file at outPath untouched.
	if err := suite.Run(bench.NewHarness(), w, rec); err != nil {
		return err
	}
	if suite.Reps > 1 {
		rec.PrintSummaries(w)
	}
	if err := rec.Close(); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	if outPath != "" {
		log.Infof("wrote results to %s", outPath)
	}
	return nil
}

type runCmd struct {
	configPath string
	outPath    string
	reps       int
	n          uint64
	verbose    bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run a benchmark suite" }
func (*runCmd) Usage() string {
	return "run [-c suite.yaml] [-reps N] [-n N] [-o results.json]\n\n" +
		"Runs the default suite unless -c is given. A suite file looks like:\n\n" +
		"\treps: 3\n" +
		"\tnumIndices: 1000000\n" +
		"\tcases:\n" +
		"\t- label: mod16\n" +
		"\t  predicate: {kind: mod, modulus: 16}\n" +
		"\t  numIndices: 160\n\n" +
		"A case-level numIndices overrides the suite-level one.\n"
}

func (c *runCmd) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "c", "", "path to suite config (yaml); default suite if empty")
	fs.StringVar(&c.outPath, "o", "", "path to write results as json lines")
	fs.IntVar(&c.reps, "reps", 0, "repetitions per case (overrides config)")
	fs.Uint64Var(&c.n, "n", 0, "indices per case (overrides config)")
	fs.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *runCmd) suite() (bench.Suite, error) {
	suite := bench.DefaultSuite()
	if c.configPath != "" {
		var err error
		suite, err = bench.LoadSuite(c.configPath)
		if err != nil {
			return bench.Suite{}, err
		}
	}
	if c.reps != 0 {
		suite.Reps = c.reps
	}
	if c.n != 0 {
		if c.n > math.MaxUint32 {
			return bench.Suite{}, fmt.Errorf("-n %d exceeds %d", c.n, uint32(math.MaxUint32))
		}
		suite = suite.WithN(uint32(c.n))
	}
	if err := suite.Validate(); err != nil {
		return bench.Suite{}, fmt.Errorf("invalid suite: %w", err)
	}
	return suite, nil
}

func (c *runCmd) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if fs.NArg() != 0 {
		fs.Usage()
		return subcommands.ExitUsageError
	}
	if c.verbose {
		log.SetLogLevel(log.Verbose)
	}
	suite, err := c.suite()
	if err != nil {
		log.Errf("%v", err)
		return subcommands.ExitUsageError
	}
	if err := runSuite(suite, c.outPath, os.Stderr); err != nil {
		log.Errf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var _ subcommands.Command = new(runCmd)

// Command samplebench times sampling predicates.
//
// Without arguments it runs the default suite and reports to stderr:
//
//	ModPredicate(1/16):
//	  res: 96874904 time=310 ms (322.5 M samples/sec)
//	...
//
// Subcommands run custom suites and show which indices a predicate
// selects.
package main

import (
	"context"
	"flag"
	"os"

	"fortio.org/fortio/log"
	"github.com/google/subcommands"
	"github.com/uluyol/fastsample/go/bench"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(new(runCmd), "")
	subcommands.Register(new(patternCmd), "inspect")
	subcommands.Register(new(ratesCmd), "inspect")

	flag.Parse()

	if flag.NArg() == 0 {
		if err := runSuite(bench.DefaultSuite(), "", os.Stderr); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	os.Exit(int(subcommands.Execute(context.Background())))
}

/*
main.go - Mortgage calculator entry point

PURPOSE:
  One-shot command line calculation. Parses the loan flags, streams the
  schedule to stdout year by year and prints the total cost and effective
  yearly rate.

EXIT CODES:
  0  Success (or -h)
  1  The simulation failed (non-terminating, degenerate result)
  2  Missing, unparsable or invalid input

EXAMPLES:
  # The reference loan
  ./mortgage --dur 15 --am 350000 --sf 1525 --im 1.16 --id 27 --mp 4.09 \
             --over 50000 --of 50 --oa 0 --or 1

  # Same loan, yearly lines only, corrected payment display
  ./mortgage --preset reference --summary --display active-rate

SEE ALSO:
  - cli/flags.go: Flag definitions
  - report/console.go: Output layout
  - amortization/engine.go: Simulation loop
*/
package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/warp/mortgage-engine/amortization"
	"github.com/warp/mortgage-engine/cli"
	"github.com/warp/mortgage-engine/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "mortgage: ", 0)

	cfg, err := cli.Parse(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		logger.Println(err)
		return 2
	}

	sim, err := amortization.NewEngine(cfg.Options).Start(cfg.Terms)
	if err != nil {
		logger.Println(err)
		return 2
	}

	console := report.NewConsole(stdout)
	console.Currency = cfg.Currency
	console.SummaryOnly = cfg.SummaryOnly

	if _, err := console.Stream(sim); err != nil {
		logger.Printf("calculation failed: %v", err)
		if amortization.IsClientError(err) {
			return 2
		}
		return 1
	}
	return 0
}

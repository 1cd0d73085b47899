/*
Package cli parses the mortgage calculator's command line.

PURPOSE:
  Turns the ten loan flags into validated amortization.Terms, plus the
  optional presentation and engine options. Every problem is collected, so
  a user who forgets three flags hears about all three at once.

FLAGS (value required, no defaults):
  -d, --dur    Duration (years)
  -a, --am     Amount borrowed
  -s, --sf     Setup fee
  -i, --im     Initial interest rate (%)
  -r, --id     Initial interest rate duration (months)
  -z, --mp     Interest rate afterwards (%)
  -o, --over   Yearly overpayment amount
  -x, --of     Overpayment flat fee
  -c, --oa     Overpayment free allowance (fraction, or percent with a % suffix)
  -f, --or     Overpayment rate (%)

OPTIONAL:
  --terms FILE      JSON terms (see factory/terms.go); loan flags override it
  --preset NAME     Named terms (see presets/presets.go); loan flags override it
  --display MODE    as-written | active-rate
  --waiver POLICY   after-initial | final-initial-year
  --max-years N     Year horizon before giving up (default 1000)
  --currency SYM    Currency prefix (default £)
  --summary         Omit monthly payment lines

  The standard flag package accepts both -dur and --dur, so every loan flag
  is registered under its short and long name with one shared value.

EXAMPLE:
  mortgage --dur 15 --am 350000 --sf 1525 --im 1.16 --id 27 --mp 4.09 \
           --over 50000 --of 50 --oa 0 --or 1
*/
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/mortgage-engine/amortization"
	"github.com/warp/mortgage-engine/factory"
	"github.com/warp/mortgage-engine/presets"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config is the parsed command line.
type Config struct {
	Terms   amortization.Terms
	Options amortization.Options

	Currency    string
	SummaryOnly bool
}

// ConfigError lists every flag problem found.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "configuration error:\n  - " + strings.Join(e.Problems, "\n  - ")
}

// =============================================================================
// LOAN FLAGS
// =============================================================================

// loanFlag is a flag.Value shared by a short and a long name.
type loanFlag struct {
	short, long string
	usage       string
	raw         string
	set         bool
	apply       func(t *amortization.Terms, raw string) error
}

func (f *loanFlag) String() string { return f.raw }

func (f *loanFlag) Set(s string) error {
	f.raw = s
	f.set = true
	return nil
}

func (f *loanFlag) name() string {
	return fmt.Sprintf("-%s/--%s", f.short, f.long)
}

func loanFlags() []*loanFlag {
	return []*loanFlag{
		{short: "d", long: "dur", usage: "Duration (years)", apply: func(t *amortization.Terms, s string) (err error) {
			t.DurationYears, err = parseInt(s)
			return err
		}},
		{short: "a", long: "am", usage: "Amount borrowed", apply: func(t *amortization.Terms, s string) (err error) {
			t.Principal, err = parseDecimal(s)
			return err
		}},
		{short: "s", long: "sf", usage: "Setup fee", apply: func(t *amortization.Terms, s string) (err error) {
			t.SetupFee, err = parseDecimal(s)
			return err
		}},
		{short: "i", long: "im", usage: "Initial interest rate (%)", apply: func(t *amortization.Terms, s string) (err error) {
			t.InitialAnnualRate, err = parseDecimal(s)
			return err
		}},
		{short: "r", long: "id", usage: "Initial interest rate duration (months)", apply: func(t *amortization.Terms, s string) (err error) {
			t.InitialRateMonths, err = parseInt(s)
			return err
		}},
		{short: "z", long: "mp", usage: "Interest rate afterwards (%)", apply: func(t *amortization.Terms, s string) (err error) {
			t.FollowupAnnualRate, err = parseDecimal(s)
			return err
		}},
		{short: "o", long: "over", usage: "Yearly overpayment amount", apply: func(t *amortization.Terms, s string) (err error) {
			t.OverpaymentAmount, err = parseDecimal(s)
			return err
		}},
		{short: "x", long: "of", usage: "Overpayment flat fee", apply: func(t *amortization.Terms, s string) (err error) {
			t.OverpaymentFlatFee, err = parseDecimal(s)
			return err
		}},
		{short: "c", long: "oa", usage: "Overpayment free allowance (0.1 or 10%)", apply: func(t *amortization.Terms, s string) (err error) {
			t.OverpaymentFreeFraction, err = ParseAllowance(s)
			return err
		}},
		{short: "f", long: "or", usage: "Overpayment rate (%)", apply: func(t *amortization.Terms, s string) (err error) {
			t.OverpaymentRate, err = parseDecimal(s)
			return err
		}},
	}
}

// =============================================================================
// PARSING
// =============================================================================

// Parse reads args (without the program name). Usage text goes to output.
// It returns flag.ErrHelp when -h is given, a *ConfigError for missing or
// unparsable flags, and an amortization.ErrInvalidTerms error when the
// values parse but describe no valid loan.
func Parse(args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("mortgage", flag.ContinueOnError)
	fs.SetOutput(output)

	loan := loanFlags()
	for _, lf := range loan {
		fs.Var(lf, lf.short, lf.usage)
		fs.Var(lf, lf.long, lf.usage)
	}

	termsFile := fs.String("terms", "", "JSON file with loan terms")
	preset := fs.String("preset", "", "Named loan terms")
	display := fs.String("display", "", "Monthly payment display: as-written | active-rate")
	waiver := fs.String("waiver", "", "Overpayment fee waiver: after-initial | final-initial-year")
	maxYears := fs.Int("max-years", amortization.DefaultMaxYears, "Years simulated before giving up")
	currency := fs.String("currency", "£", "Currency prefix")
	summary := fs.Bool("summary", false, "Omit monthly payment lines")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, &ConfigError{Problems: []string{err.Error()}}
	}

	var problems []string
	if fs.NArg() > 0 {
		problems = append(problems, fmt.Sprintf("unexpected arguments: %s", strings.Join(fs.Args(), " ")))
	}

	var terms amortization.Terms
	switch {
	case *termsFile != "" && *preset != "":
		problems = append(problems, "--terms and --preset are mutually exclusive")
	case *termsFile != "":
		t, err := loadTermsFile(*termsFile)
		if err != nil {
			problems = append(problems, err.Error())
		}
		terms = t
	case *preset != "":
		p, err := presets.Get(*preset)
		if err != nil {
			problems = append(problems, err.Error())
		}
		terms = p.Terms
	}

	for _, lf := range loan {
		if !lf.set {
			if *termsFile == "" && *preset == "" {
				problems = append(problems, fmt.Sprintf("%s is required (%s)", lf.name(), lf.usage))
			}
			continue
		}
		if err := lf.apply(&terms, lf.raw); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", lf.name(), err))
		}
	}

	f := factory.NewTermsFactory()
	opts, err := f.CreateOptions(factory.OptionsJSON{Display: *display, Waiver: *waiver, MaxYears: *maxYears})
	if err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return nil, &ConfigError{Problems: problems}
	}

	if err := terms.Validate(); err != nil {
		return nil, err
	}

	return &Config{
		Terms:       terms,
		Options:     opts,
		Currency:    *currency,
		SummaryOnly: *summary,
	}, nil
}

func loadTermsFile(path string) (amortization.Terms, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return amortization.Terms{}, fmt.Errorf("--terms: %w", err)
	}
	terms, err := factory.NewTermsFactory().DecodeTerms(data)
	if err != nil {
		return amortization.Terms{}, fmt.Errorf("--terms %s: %w", path, err)
	}
	return terms, nil
}

// ParseAllowance reads a free allowance as a fraction ("0.1") or a
// percentage ("10%").
func ParseAllowance(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := parseDecimal(pct)
		if err != nil {
			return 0, err
		}
		return v / 100, nil
	}
	return parseDecimal(s)
}

func parseDecimal(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return d.InexactFloat64(), nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return v, nil
}

/*
engine.go - The amortization simulation loop

PURPOSE:
  Runs the schedule year by year until the outstanding balance reaches
  zero, yielding one YearSummary per year. The run is pure: no I/O, no
  shared state, so independent runs may execute concurrently.

YEARLY STEP:
  1. Twelve months: accrue interest at the active rate on the balance
     before the payment, then repay the flat monthly payment
  2. Overpayment: apply min(amount, balance), charge flat fee plus the
     surcharge on the part above the free allowance unless waived
  3. Emit the YearSummary

TERMINATION:
  A run fails with ErrNonTerminating when it passes Options.MaxYears or a
  year ends without lowering the balance. With validated terms the flat
  payment is positive, so the loan is repaid within DurationYears.

LAZY ITERATION:
  sim, err := engine.Start(terms)
  for sim.Next() {
      y := sim.Year()
      ...
  }
  if err := sim.Err(); err != nil { ... }
  report, err := sim.Report()

  Or with range-over-func:
  for y := range sim.All() { ... }

SEE ALSO:
  - state.go: stepMonth and applyOverpayment
  - report.go: Effective rate
*/
package amortization

import "iter"

// DefaultMaxYears is the iteration cap used when Options.MaxYears is zero.
const DefaultMaxYears = 1000

// =============================================================================
// OPTIONS
// =============================================================================

// PaymentDisplay selects the rate used for MonthlyPayment.DisplayPayment.
type PaymentDisplay string

const (
	// DisplayAsWritten uses the teaser rate in both phases.
	DisplayAsWritten PaymentDisplay = "as-written"

	// DisplayActiveRate uses the rate in force for the month.
	DisplayActiveRate PaymentDisplay = "active-rate"
)

// WaiverPolicy selects the years in which the overpayment surcharge and
// flat fee are waived.
type WaiverPolicy string

const (
	// WaiveAfterInitialPeriod waives the charge in every year that ends
	// with no teaser months left.
	WaiveAfterInitialPeriod WaiverPolicy = "after-initial"

	// WaiveInFinalInitialYear waives the charge only in the year whose
	// months exhaust the teaser period.
	WaiveInFinalInitialYear WaiverPolicy = "final-initial-year"
)

// Options tune a run. The zero value selects the defaults below.
type Options struct {
	MaxYears       int
	PaymentDisplay PaymentDisplay
	Waiver         WaiverPolicy
}

func (o Options) withDefaults() Options {
	if o.MaxYears <= 0 {
		o.MaxYears = DefaultMaxYears
	}
	if o.PaymentDisplay == "" {
		o.PaymentDisplay = DisplayAsWritten
	}
	if o.Waiver == "" {
		o.Waiver = WaiveAfterInitialPeriod
	}
	return o
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine starts simulations with a fixed set of options. It holds no run
// state and is safe for concurrent use.
type Engine struct {
	Options Options
}

// NewEngine creates an engine, filling unset options with defaults.
func NewEngine(opts Options) *Engine {
	return &Engine{Options: opts.withDefaults()}
}

// Start validates terms and returns a simulation positioned before year 1.
func (e *Engine) Start(terms Terms) (*Simulation, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{
		terms: terms,
		rates: DeriveRates(terms),
		opts:  e.Options.withDefaults(),
		state: newState(terms),
	}, nil
}

// Run simulates terms to completion and materializes every year.
func (e *Engine) Run(terms Terms) (*Schedule, error) {
	sim, err := e.Start(terms)
	if err != nil {
		return nil, err
	}

	var years []YearSummary
	for sim.Next() {
		years = append(years, sim.Year())
	}
	report, err := sim.Report()
	if err != nil {
		return nil, err
	}

	return &Schedule{Terms: terms, Years: years, Report: report}, nil
}

// Run simulates terms with default options.
func Run(terms Terms) (*Schedule, error) {
	return NewEngine(Options{}).Run(terms)
}

// =============================================================================
// SIMULATION - One run
// =============================================================================

// Simulation is a single run. It is not safe for concurrent use.
type Simulation struct {
	terms Terms
	rates Rates
	opts  Options
	state simulationState

	current YearSummary
	err     error
}

// Terms returns the validated terms of this run.
func (s *Simulation) Terms() Terms {
	return s.terms
}

// Rates returns the constants derived for this run.
func (s *Simulation) Rates() Rates {
	return s.rates
}

// Next advances one year. It returns false once the loan is repaid or the
// run failed; check Err to tell them apart.
func (s *Simulation) Next() bool {
	if s.err != nil || s.state.paidOff() {
		return false
	}
	if s.state.year >= s.opts.MaxYears {
		s.err = &NonTerminatingError{
			Years:   s.state.year,
			Balance: s.state.balance,
			Reason:  "year limit reached",
		}
		return false
	}

	startBalance := s.state.balance
	s.current = s.step()

	if !s.state.paidOff() && s.state.balance >= startBalance {
		s.err = &NonTerminatingError{
			Years:   s.state.year,
			Balance: s.state.balance,
			Reason:  "balance did not decrease",
		}
		return false
	}
	return true
}

// step runs the twelve months and the overpayment of one year.
func (s *Simulation) step() YearSummary {
	st := &s.state
	teaserAtYearStart := st.initialMonthsRemaining > 0

	months := make([]MonthlyPayment, 0, 12)
	interest := 0.0
	for m := 1; m <= 12; m++ {
		mp := stepMonth(st, s.rates, m, s.opts.PaymentDisplay)
		interest += mp.Interest
		months = append(months, mp)
	}

	op := applyOverpayment(st, s.terms, teaserAtYearStart, s.opts.Waiver)
	st.year++

	return YearSummary{
		Year:                   st.year,
		Months:                 months,
		Overpayment:            op,
		Balance:                st.balance,
		AccruedInterestAndFees: st.accrued,
		InterestPaid:           interest,
	}
}

// Year returns the summary produced by the last successful Next.
func (s *Simulation) Year() YearSummary {
	return s.current
}

// Err returns the failure that stopped the run, if any.
func (s *Simulation) Err() error {
	return s.err
}

// Done reports whether the balance has reached zero.
func (s *Simulation) Done() bool {
	return s.err == nil && s.state.paidOff()
}

// All yields the remaining years. Iteration stops early on failure; the
// error is available from Err.
func (s *Simulation) All() iter.Seq[YearSummary] {
	return func(yield func(YearSummary) bool) {
		for s.Next() {
			if !yield(s.current) {
				return
			}
		}
	}
}

// Report derives the final figures. It drains any years not yet consumed.
func (s *Simulation) Report() (Report, error) {
	for s.Next() {
	}
	if s.err != nil {
		return Report{}, s.err
	}
	return NewReport(s.terms.Principal, s.state.accrued, s.state.year)
}

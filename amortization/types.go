/*
Package amortization provides the mortgage amortization engine.

PURPOSE:
  Simulates a mortgage month by month and year by year. The loan starts on
  a teaser rate for a fixed number of months, then moves to a follow-up
  rate. Once a year the borrower may overpay, which costs a flat fee plus a
  surcharge on the part of the overpayment above the free allowance.

KEY CONCEPTS IN THIS FILE (types.go):
  - Terms: The immutable inputs of one run
  - MonthlyPayment: One month of the schedule
  - Overpayment: The yearly overpayment and what it cost
  - YearSummary: One year of the schedule with its months
  - Report: Total cost and effective yearly rate once the loan is repaid

MODEL:
  The monthly payment is flat: Principal / (DurationYears * 12). It is fixed
  at origination and never recalculated when the balance, the rate or the
  overpayments change. Interest is accrued separately on the balance before
  each month's reduction, so the principal repayment does not depend on the
  rate. This is not a true annuity schedule.

USAGE:
  terms, err := amortization.NewTerms(amortization.Terms{
      Principal:          350000,
      DurationYears:      15,
      InitialAnnualRate:  1.16,
      InitialRateMonths:  27,
      FollowupAnnualRate: 4.09,
  })
  schedule, err := amortization.Run(terms)
  fmt.Println(schedule.Report.EffectiveAnnualRate)

SEE ALSO:
  - engine.go: Simulation loop and options
  - state.go: Mutable loop state and step functions
  - errors.go: Error taxonomy
*/
package amortization

// =============================================================================
// TERMS - Inputs of a run
// =============================================================================

// Terms holds the loan parameters. Rates are annual percentages (1.16 means
// 1.16%), amounts are in the currency of the loan.
type Terms struct {
	Principal     float64
	DurationYears int
	SetupFee      float64

	InitialAnnualRate  float64
	InitialRateMonths  int
	FollowupAnnualRate float64

	OverpaymentAmount       float64
	OverpaymentFlatFee      float64
	OverpaymentFreeFraction float64 // Fraction of the outstanding balance exempt from the surcharge
	OverpaymentRate         float64
}

// Rates are the constants derived from Terms once before a run.
type Rates struct {
	MonthlyPayment      float64
	InitialMonthlyRate  float64
	FollowupMonthlyRate float64
}

// =============================================================================
// RECORDS - Emitted by the simulation
// =============================================================================

// MonthlyPayment describes one month of the schedule.
type MonthlyPayment struct {
	Month       int  // 1-12 within the year
	InitialRate bool // Teaser rate was in force this month

	Payment   float64 // Nominal flat payment
	Interest  float64 // Rate x balance before the reduction
	Principal float64 // Balance actually repaid, capped at what was outstanding

	// DisplayPayment is the payment shown to the borrower: the principal
	// repaid plus the interest on the balance left after this month, and
	// zero for months after the loan is repaid. Which rate is used depends
	// on Options.PaymentDisplay.
	DisplayPayment float64

	Balance float64 // After this month's reduction
	Accrued float64 // Running interest and fees after this month
}

// Overpayment describes the yearly overpayment.
type Overpayment struct {
	Requested  float64
	Applied    float64 // min(Requested, balance)
	Free       float64 // Allowance fraction x balance
	Chargeable float64 // max(0, Applied - Free)
	Surcharge  float64 // Flat fee + rate x Chargeable, or zero when waived
	Waived     bool
}

// YearSummary describes one completed year.
type YearSummary struct {
	Year   int
	Months []MonthlyPayment

	Overpayment Overpayment

	Balance                float64 // After the overpayment
	AccruedInterestAndFees float64 // Cumulative, setup fee included
	InterestPaid           float64 // Interest charged during this year only
}

// Report is derived once the balance reaches zero.
type Report struct {
	Principal              float64
	AccruedInterestAndFees float64
	TotalCost              float64
	Years                  int

	// EffectiveAnnualRate is the constant yearly rate, in percent, that turns
	// Principal into TotalCost over Years.
	EffectiveAnnualRate float64
}

// Schedule is a fully materialized run.
type Schedule struct {
	Terms  Terms
	Years  []YearSummary
	Report Report
}

// Months returns how many monthly records the schedule holds.
func (s *Schedule) Months() int {
	n := 0
	for _, y := range s.Years {
		n += len(y.Months)
	}
	return n
}

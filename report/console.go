/*
Package report renders amortization schedules as text.

PURPOSE:
  The engine only produces records. This package turns a terms header, the
  yearly records and the final report into the console layout:

    --------------------------------------------------
    Mortgage duration:            15 years
    Amount borrowed:              £350000.00
    ...
    --------------------------------------------------
      > Monthly payment 1:     £...
      ...
    YEAR:                     1
    Amount remaining:         £276666.67
    Interest and fees paid:   £...
    --------------------------------------------------
    Total cost:               £...
    Functional interest:      ...% (yearly)
    --------------------------------------------------

MONEY:
  Amounts are rounded half-away-from-zero to 2 places with
  shopspring/decimal, so the text never shows float noise.

SEE ALSO:
  - amortization/types.go: Records rendered here
  - cmd/mortgage/main.go: Streams a simulation through a Console
*/
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/mortgage-engine/amortization"
)

// DefaultCurrency prefixes every amount unless Console.Currency is set.
const DefaultCurrency = "£"

var separator = strings.Repeat("-", 50)

// Console writes a schedule to W. Write errors are sticky: after the first
// failure every method is a no-op and Err returns it.
type Console struct {
	W        io.Writer
	Currency string

	// SummaryOnly omits the monthly payment lines.
	SummaryOnly bool

	err error
}

// NewConsole creates a console writer with the default currency.
func NewConsole(w io.Writer) *Console {
	return &Console{W: w, Currency: DefaultCurrency}
}

// Err returns the first write error.
func (c *Console) Err() error {
	return c.err
}

func (c *Console) printf(format string, args ...any) {
	if c.err != nil {
		return
	}
	_, c.err = fmt.Fprintf(c.W, format, args...)
}

// Money formats an amount with the currency prefix and 2 decimals.
func (c *Console) Money(v float64) string {
	cur := c.Currency
	if cur == "" {
		cur = DefaultCurrency
	}
	return cur + Round(v).StringFixed(2)
}

// Round converts a float amount to a decimal rounded to cents.
func Round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Percent formats a percentage with 2 decimals.
func Percent(v float64) string {
	return Round(v).StringFixed(2) + "%"
}

// Header echoes the loan terms.
func (c *Console) Header(t amortization.Terms) {
	c.printf("%s\n", separator)
	c.printf("Mortgage duration:            %d years\n", t.DurationYears)
	c.printf("Amount borrowed:              %s\n", c.Money(t.Principal))
	c.printf("Setup fee:                    %s\n", c.Money(t.SetupFee))
	c.printf("Initial interest rate:        %s\n", Percent(t.InitialAnnualRate))
	c.printf("Duration of initial payment:  %d months\n", t.InitialRateMonths)
	c.printf("Monthly interest afterwards:  %s\n", Percent(t.FollowupAnnualRate))
	c.printf("Yearly overpayment amount:    %s\n", c.Money(t.OverpaymentAmount))
	c.printf("Overpayment fee:              %s\n", c.Money(t.OverpaymentFlatFee))
	c.printf("Overpayment allowance:        %s\n", Percent(100*t.OverpaymentFreeFraction))
	c.printf("Overpayment rate:             %s\n", Percent(t.OverpaymentRate))
	c.printf("%s\n", separator)
}

// Year writes the monthly lines and the year block.
func (c *Console) Year(y amortization.YearSummary) {
	if !c.SummaryOnly {
		for _, m := range y.Months {
			c.printf("  > Monthly payment %d:     %s\n", m.Month, c.Money(m.DisplayPayment))
		}
	}
	c.printf("YEAR:                     %d\n", y.Year)
	c.printf("Amount remaining:         %s\n", c.Money(y.Balance))
	c.printf("Interest and fees paid:   %s\n", c.Money(y.AccruedInterestAndFees))
	if y.Overpayment.Applied > 0 || y.Overpayment.Surcharge > 0 {
		fee := c.Money(y.Overpayment.Surcharge)
		if y.Overpayment.Waived {
			fee = "waived"
		}
		c.printf("Overpaid:                 %s (fee %s)\n", c.Money(y.Overpayment.Applied), fee)
	}
	c.printf("%s\n", separator)
}

// Footer writes the total cost and the effective yearly rate.
func (c *Console) Footer(r amortization.Report) {
	c.printf("Total cost:               %s\n", c.Money(r.TotalCost))
	c.printf("Functional interest:      %s (yearly)\n", Percent(r.EffectiveAnnualRate))
	c.printf("%s\n", separator)
}

// Schedule writes a complete, materialized schedule.
func (c *Console) Schedule(s *amortization.Schedule) error {
	c.Header(s.Terms)
	for _, y := range s.Years {
		c.Year(y)
	}
	c.Footer(s.Report)
	return c.err
}

// Stream writes a simulation as it runs, one year at a time.
func (c *Console) Stream(sim *amortization.Simulation) (amortization.Report, error) {
	c.Header(sim.Terms())
	for y := range sim.All() {
		c.Year(y)
	}
	report, err := sim.Report()
	if err != nil {
		return amortization.Report{}, err
	}
	c.Footer(report)
	return report, c.err
}

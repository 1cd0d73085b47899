package amortization

import (
	"fmt"
	"math"
)

// MaxAnnualRate bounds every percentage input.
const MaxAnnualRate = 1000.0

// MaxDurationYears bounds the loan duration. A loan without overpayments
// is repaid in exactly DurationYears, so valid terms always finish within
// the default year horizon.
const MaxDurationYears = DefaultMaxYears

// NewTerms validates t and returns it unchanged.
func NewTerms(t Terms) (Terms, error) {
	if err := t.Validate(); err != nil {
		return Terms{}, err
	}
	return t, nil
}

// Validate reports the first field that makes the terms unusable.
func (t Terms) Validate() error {
	if err := finite("principal", t.Principal); err != nil {
		return err
	}
	if t.Principal <= 0 {
		return invalid("principal", t.Principal, "must be positive")
	}
	if t.DurationYears <= 0 {
		return invalid("duration_years", float64(t.DurationYears), "must be positive")
	}
	if t.DurationYears > MaxDurationYears {
		return invalid("duration_years", float64(t.DurationYears), fmt.Sprintf("must not exceed %d", MaxDurationYears))
	}
	if t.InitialRateMonths < 0 {
		return invalid("initial_rate_months", float64(t.InitialRateMonths), "must not be negative")
	}

	amounts := []struct {
		field string
		value float64
	}{
		{"setup_fee", t.SetupFee},
		{"overpayment_amount", t.OverpaymentAmount},
		{"overpayment_flat_fee", t.OverpaymentFlatFee},
	}
	for _, a := range amounts {
		if err := finite(a.field, a.value); err != nil {
			return err
		}
		if a.value < 0 {
			return invalid(a.field, a.value, "must not be negative")
		}
	}

	rates := []struct {
		field string
		value float64
	}{
		{"initial_annual_rate", t.InitialAnnualRate},
		{"followup_annual_rate", t.FollowupAnnualRate},
		{"overpayment_rate", t.OverpaymentRate},
	}
	for _, r := range rates {
		if err := finite(r.field, r.value); err != nil {
			return err
		}
		if r.value < 0 {
			return invalid(r.field, r.value, "percentage must not be negative")
		}
		if r.value > MaxAnnualRate {
			return invalid(r.field, r.value, "percentage exceeds 1000")
		}
	}

	if err := finite("overpayment_free_fraction", t.OverpaymentFreeFraction); err != nil {
		return err
	}
	if t.OverpaymentFreeFraction < 0 || t.OverpaymentFreeFraction > 1 {
		return invalid("overpayment_free_fraction", t.OverpaymentFreeFraction, "must be within [0,1]")
	}
	return nil
}

// DeriveRates computes the flat monthly payment and the monthly equivalents
// of both annual rates.
func DeriveRates(t Terms) Rates {
	return Rates{
		MonthlyPayment:      t.Principal / (float64(t.DurationYears) * 12),
		InitialMonthlyRate:  monthlyRate(t.InitialAnnualRate),
		FollowupMonthlyRate: monthlyRate(t.FollowupAnnualRate),
	}
}

// monthlyRate converts an annual percentage into the monthly rate that
// compounds to it over twelve months.
func monthlyRate(annualPercent float64) float64 {
	return math.Pow(1+annualPercent/100, 1.0/12) - 1
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, v, "must be a finite number")
	}
	return nil
}

func invalid(field string, v float64, reason string) error {
	return &InvalidTermsError{Field: field, Value: v, Reason: reason}
}

package amortization

import (
	"fmt"
	"math"
)

// NewReport derives the final figures of a run.
func NewReport(principal, accrued float64, years int) (Report, error) {
	total := principal + accrued
	rate, err := EffectiveAnnualRate(principal, total, years)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Principal:              principal,
		AccruedInterestAndFees: accrued,
		TotalCost:              total,
		Years:                  years,
		EffectiveAnnualRate:    rate,
	}, nil
}

// EffectiveAnnualRate returns, in percent, the yearly rate r such that
// principal * (1 + r/100)^years == totalCost.
func EffectiveAnnualRate(principal, totalCost float64, years int) (float64, error) {
	if years <= 0 {
		return 0, fmt.Errorf("effective rate over %d years: %w", years, ErrArithmeticDegenerate)
	}
	if principal <= 0 {
		return 0, fmt.Errorf("effective rate on principal %v: %w", principal, ErrArithmeticDegenerate)
	}

	rate := 100 * (math.Pow(totalCost/principal, 1/float64(years)) - 1)
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("effective rate is %v: %w", rate, ErrArithmeticDegenerate)
	}
	return rate, nil
}

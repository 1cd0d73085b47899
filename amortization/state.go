package amortization

import "math"

// PaidOffTolerance is the balance below which the loan counts as repaid.
// Without it float residue from Principal/(DurationYears*12) can leave a
// balance of 1e-10 and add a whole extra year.
const PaidOffTolerance = 1e-6

// simulationState is the mutable loop state of one Simulation.
type simulationState struct {
	balance                float64
	initialMonthsRemaining int
	accrued                float64
	year                   int
}

func newState(t Terms) simulationState {
	return simulationState{
		balance:                t.Principal,
		initialMonthsRemaining: t.InitialRateMonths,
		accrued:                t.SetupFee,
	}
}

func (s *simulationState) paidOff() bool {
	return s.balance <= 0
}

// reduce lowers the balance by at most what is outstanding and returns the
// amount actually taken off.
func (s *simulationState) reduce(amount float64) float64 {
	if amount > s.balance {
		amount = math.Max(s.balance, 0)
	}
	s.balance -= amount
	if s.balance < PaidOffTolerance {
		s.balance = 0
	}
	return amount
}

// stepMonth accrues one month of interest and applies the flat payment.
func stepMonth(s *simulationState, r Rates, month int, display PaymentDisplay) MonthlyPayment {
	teaser := s.initialMonthsRemaining > 0
	rate := r.FollowupMonthlyRate
	if teaser {
		rate = r.InitialMonthlyRate
	}

	interest := 0.0
	if s.balance > 0 {
		interest = rate * s.balance
	}
	s.accrued += interest
	principal := s.reduce(r.MonthlyPayment)

	if teaser {
		s.initialMonthsRemaining--
	}

	displayRate := r.InitialMonthlyRate
	if display == DisplayActiveRate {
		displayRate = rate
	}

	return MonthlyPayment{
		Month:          month,
		InitialRate:    teaser,
		Payment:        r.MonthlyPayment,
		Interest:       interest,
		Principal:      principal,
		DisplayPayment: displayPayment(principal, displayRate, s.balance),
		Balance:        s.balance,
		Accrued:        s.accrued,
	}
}

// displayPayment is the amount shown for a month: the principal actually
// repaid plus interest on what is left. Once the loan is repaid it is zero.
func displayPayment(principal, rate, balance float64) float64 {
	if principal <= 0 && balance <= 0 {
		return 0
	}
	return principal + rate*balance
}

// applyOverpayment runs the yearly overpayment policy. teaserAtYearStart
// reports whether the teaser counter was positive when the year began.
func applyOverpayment(s *simulationState, t Terms, teaserAtYearStart bool, policy WaiverPolicy) Overpayment {
	applied := math.Min(t.OverpaymentAmount, math.Max(s.balance, 0))
	free := t.OverpaymentFreeFraction * s.balance
	chargeable := math.Max(0, applied-free)

	op := Overpayment{
		Requested:  t.OverpaymentAmount,
		Applied:    applied,
		Free:       free,
		Chargeable: chargeable,
	}

	switch policy {
	case WaiveInFinalInitialYear:
		op.Waived = teaserAtYearStart && s.initialMonthsRemaining == 0
	default:
		op.Waived = s.initialMonthsRemaining == 0
	}
	if !op.Waived {
		op.Surcharge = t.OverpaymentFlatFee + (t.OverpaymentRate/100)*chargeable
	}

	s.reduce(applied)
	s.accrued += op.Surcharge
	return op
}

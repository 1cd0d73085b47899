/*
Package factory provides JSON to Go loan terms conversion.

PURPOSE:
  Converts JSON loan definitions into amortization.Terms and
  amortization.Options. The HTTP API, the CLI --terms flag and the presets
  all go through here, so every entry point validates the same way.

JSON SCHEMA:
  {
    "duration_years": 15,
    "principal": "350000",
    "setup_fee": 1525,
    "initial_annual_rate": 1.16,
    "initial_rate_months": 27,
    "followup_annual_rate": 4.09,
    "overpayment_amount": 50000,
    "overpayment_flat_fee": 50,
    "overpayment_free_fraction": 0,
    "overpayment_rate": 1
  }

  Amounts and rates accept JSON numbers or decimal strings. Every field is
  required; there are no defaults.

OPTIONS SCHEMA:
  {"display": "as-written", "waiver": "after-initial", "max_years": 1000}

  All option fields are optional.

USAGE:
  f := factory.NewTermsFactory()
  terms, err := f.ParseTerms(data)

SEE ALSO:
  - amortization/types.go: Terms definition
  - presets/presets.go: Named terms built with TermsJSON
*/
package factory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/mortgage-engine/amortization"
)

// ErrMissingField is returned when a required terms field is absent.
var ErrMissingField = errors.New("missing required field")

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TermsJSON is the JSON representation of loan terms.
type TermsJSON struct {
	DurationYears           *int             `json:"duration_years"`
	Principal               *decimal.Decimal `json:"principal"`
	SetupFee                *decimal.Decimal `json:"setup_fee"`
	InitialAnnualRate       *decimal.Decimal `json:"initial_annual_rate"`
	InitialRateMonths       *int             `json:"initial_rate_months"`
	FollowupAnnualRate      *decimal.Decimal `json:"followup_annual_rate"`
	OverpaymentAmount       *decimal.Decimal `json:"overpayment_amount"`
	OverpaymentFlatFee      *decimal.Decimal `json:"overpayment_flat_fee"`
	OverpaymentFreeFraction *decimal.Decimal `json:"overpayment_free_fraction"`
	OverpaymentRate         *decimal.Decimal `json:"overpayment_rate"`
}

// OptionsJSON is the JSON representation of run options.
type OptionsJSON struct {
	Display  string `json:"display,omitempty"`
	Waiver   string `json:"waiver,omitempty"`
	MaxYears int    `json:"max_years,omitempty"`
}

// =============================================================================
// TERMS FACTORY
// =============================================================================

// TermsFactory converts JSON terms to Go structs.
type TermsFactory struct{}

// NewTermsFactory creates a new terms factory.
func NewTermsFactory() *TermsFactory {
	return &TermsFactory{}
}

// ParseTerms decodes and validates a JSON terms document.
func (f *TermsFactory) ParseTerms(data []byte) (amortization.Terms, error) {
	terms, err := f.DecodeTerms(data)
	if err != nil {
		return amortization.Terms{}, err
	}
	return amortization.NewTerms(terms)
}

// DecodeTerms decodes a JSON terms document and checks every field is
// present, leaving value validation to the caller. The CLI uses it so loan
// flags can still correct a value from the file.
func (f *TermsFactory) DecodeTerms(data []byte) (amortization.Terms, error) {
	var tj TermsJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tj); err != nil {
		return amortization.Terms{}, fmt.Errorf("invalid terms JSON: %w", err)
	}
	return f.convert(tj)
}

// CreateTerms converts the JSON form into validated terms.
func (f *TermsFactory) CreateTerms(tj TermsJSON) (amortization.Terms, error) {
	terms, err := f.convert(tj)
	if err != nil {
		return amortization.Terms{}, err
	}
	return amortization.NewTerms(terms)
}

func (f *TermsFactory) convert(tj TermsJSON) (amortization.Terms, error) {
	var missing []string
	num := func(name string, d *decimal.Decimal) float64 {
		if d == nil {
			missing = append(missing, name)
			return 0
		}
		return d.InexactFloat64()
	}
	integer := func(name string, v *int) int {
		if v == nil {
			missing = append(missing, name)
			return 0
		}
		return *v
	}

	terms := amortization.Terms{
		DurationYears:           integer("duration_years", tj.DurationYears),
		Principal:               num("principal", tj.Principal),
		SetupFee:                num("setup_fee", tj.SetupFee),
		InitialAnnualRate:       num("initial_annual_rate", tj.InitialAnnualRate),
		InitialRateMonths:       integer("initial_rate_months", tj.InitialRateMonths),
		FollowupAnnualRate:      num("followup_annual_rate", tj.FollowupAnnualRate),
		OverpaymentAmount:       num("overpayment_amount", tj.OverpaymentAmount),
		OverpaymentFlatFee:      num("overpayment_flat_fee", tj.OverpaymentFlatFee),
		OverpaymentFreeFraction: num("overpayment_free_fraction", tj.OverpaymentFreeFraction),
		OverpaymentRate:         num("overpayment_rate", tj.OverpaymentRate),
	}
	if len(missing) > 0 {
		return amortization.Terms{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return terms, nil
}

// ToJSON converts terms back to their JSON form.
func ToJSON(t amortization.Terms) TermsJSON {
	d := func(v float64) *decimal.Decimal {
		x := decimal.NewFromFloat(v)
		return &x
	}
	i := func(v int) *int { return &v }

	return TermsJSON{
		DurationYears:           i(t.DurationYears),
		Principal:               d(t.Principal),
		SetupFee:                d(t.SetupFee),
		InitialAnnualRate:       d(t.InitialAnnualRate),
		InitialRateMonths:       i(t.InitialRateMonths),
		FollowupAnnualRate:      d(t.FollowupAnnualRate),
		OverpaymentAmount:       d(t.OverpaymentAmount),
		OverpaymentFlatFee:      d(t.OverpaymentFlatFee),
		OverpaymentFreeFraction: d(t.OverpaymentFreeFraction),
		OverpaymentRate:         d(t.OverpaymentRate),
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

// CreateOptions converts the JSON form into engine options.
func (f *TermsFactory) CreateOptions(oj OptionsJSON) (amortization.Options, error) {
	display, err := ParsePaymentDisplay(oj.Display)
	if err != nil {
		return amortization.Options{}, err
	}
	waiver, err := ParseWaiverPolicy(oj.Waiver)
	if err != nil {
		return amortization.Options{}, err
	}
	if oj.MaxYears < 0 {
		return amortization.Options{}, fmt.Errorf("max_years must not be negative, got %d", oj.MaxYears)
	}
	return amortization.Options{
		MaxYears:       oj.MaxYears,
		PaymentDisplay: display,
		Waiver:         waiver,
	}, nil
}

// ParsePaymentDisplay maps a name to a display mode. Empty means default.
func ParsePaymentDisplay(s string) (amortization.PaymentDisplay, error) {
	switch amortization.PaymentDisplay(s) {
	case "":
		return amortization.DisplayAsWritten, nil
	case amortization.DisplayAsWritten, amortization.DisplayActiveRate:
		return amortization.PaymentDisplay(s), nil
	}
	return "", fmt.Errorf("unknown payment display %q (want %s or %s)",
		s, amortization.DisplayAsWritten, amortization.DisplayActiveRate)
}

// ParseWaiverPolicy maps a name to a waiver policy. Empty means default.
func ParseWaiverPolicy(s string) (amortization.WaiverPolicy, error) {
	switch amortization.WaiverPolicy(s) {
	case "":
		return amortization.WaiveAfterInitialPeriod, nil
	case amortization.WaiveAfterInitialPeriod, amortization.WaiveInFinalInitialYear:
		return amortization.WaiverPolicy(s), nil
	}
	return "", fmt.Errorf("unknown waiver policy %q (want %s or %s)",
		s, amortization.WaiveAfterInitialPeriod, amortization.WaiveInFinalInitialYear)
}

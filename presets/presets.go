/*
presets.go - Pre-built loan scenarios

PURPOSE:
  Provides named, ready-to-run loan terms for demos, the CLI --preset flag
  and the /api/presets endpoints.

AVAILABLE PRESETS:
  reference:      350k over 15 years, 27 teaser months, 50k yearly overpayment
  no-overpayment: The reference loan without overpayments
  tracker:        No teaser, follow-up rate from month 1, 10% free allowance
  two-year-fix:   24 teaser months then a higher follow-up rate

ADDING NEW PRESETS:
  1. Add an entry to 'all' with ID, name, description and terms
  2. Terms must pass amortization.Terms.Validate (the tests check this)

SEE ALSO:
  - factory/terms.go: JSON form of terms
  - api/handlers.go: ListPresets, GetPreset, RunPreset
*/
package presets

import (
	"errors"
	"fmt"

	"github.com/warp/mortgage-engine/amortization"
)

// ErrPresetNotFound is returned when no preset has the requested ID.
var ErrPresetNotFound = errors.New("preset not found")

// Preset is a named set of loan terms.
type Preset struct {
	ID          string
	Name        string
	Description string
	Terms       amortization.Terms
}

// =============================================================================
// PRESET DEFINITIONS
// =============================================================================

var all = []Preset{
	{
		ID:          "reference",
		Name:        "Reference",
		Description: "350k over 15 years, 1.16% for 27 months then 4.09%, 50k overpaid yearly",
		Terms:       Reference(),
	},
	{
		ID:          "no-overpayment",
		Name:        "No Overpayment",
		Description: "The reference loan repaid on the flat monthly payment only",
		Terms:       withoutOverpayment(Reference()),
	},
	{
		ID:          "tracker",
		Name:        "Tracker",
		Description: "250k over 25 years at 3.5% from month 1, 10k overpaid with a 10% free allowance",
		Terms: amortization.Terms{
			Principal:               250000,
			DurationYears:           25,
			SetupFee:                0,
			InitialAnnualRate:       0,
			InitialRateMonths:       0,
			FollowupAnnualRate:      3.5,
			OverpaymentAmount:       10000,
			OverpaymentFlatFee:      0,
			OverpaymentFreeFraction: 0.1,
			OverpaymentRate:         1,
		},
	},
	{
		ID:          "two-year-fix",
		Name:        "Two-Year Fix",
		Description: "200k over 25 years, 4.5% for 24 months then 6.5%, 5k overpaid yearly",
		Terms: amortization.Terms{
			Principal:               200000,
			DurationYears:           25,
			SetupFee:                999,
			InitialAnnualRate:       4.5,
			InitialRateMonths:       24,
			FollowupAnnualRate:      6.5,
			OverpaymentAmount:       5000,
			OverpaymentFlatFee:      25,
			OverpaymentFreeFraction: 0.1,
			OverpaymentRate:         3,
		},
	},
}

// Reference returns the 350k/15 year worked example.
func Reference() amortization.Terms {
	return amortization.Terms{
		Principal:               350000,
		DurationYears:           15,
		SetupFee:                1525,
		InitialAnnualRate:       1.16,
		InitialRateMonths:       27,
		FollowupAnnualRate:      4.09,
		OverpaymentAmount:       50000,
		OverpaymentFlatFee:      50,
		OverpaymentFreeFraction: 0,
		OverpaymentRate:         1,
	}
}

func withoutOverpayment(t amortization.Terms) amortization.Terms {
	t.OverpaymentAmount = 0
	return t
}

// =============================================================================
// LOOKUP
// =============================================================================

// List returns every preset in display order.
func List() []Preset {
	out := make([]Preset, len(all))
	copy(out, all)
	return out
}

// Get returns the preset with the given ID.
func Get(id string) (Preset, error) {
	for _, p := range all {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
}

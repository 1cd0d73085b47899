/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Engine records carry
  float64; the DTOs carry decimal.Decimal rounded to cents so clients never
  see float noise.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Schedule:
    ScheduleRequest, ScheduleDTO, YearDTO, MonthDTO, OverpaymentDTO, ReportDTO

  Presets:
    PresetDTO

SEE ALSO:
  - handlers.go: Uses these types
  - factory/terms.go: TermsJSON and OptionsJSON
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/mortgage-engine/amortization"
	"github.com/warp/mortgage-engine/factory"
	"github.com/warp/mortgage-engine/presets"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ScheduleRequest is the request to compute a schedule.
type ScheduleRequest struct {
	Terms         factory.TermsJSON   `json:"terms"`
	Options       factory.OptionsJSON `json:"options"`
	IncludeMonths bool                `json:"include_months,omitempty"`
}

// MonthDTO represents one month of a schedule.
type MonthDTO struct {
	Month          int             `json:"month"`
	InitialRate    bool            `json:"initial_rate"`
	Payment        decimal.Decimal `json:"payment"`
	Interest       decimal.Decimal `json:"interest"`
	Principal      decimal.Decimal `json:"principal"`
	DisplayPayment decimal.Decimal `json:"display_payment"`
	Balance        decimal.Decimal `json:"balance"`
	Accrued        decimal.Decimal `json:"accrued"`
}

// OverpaymentDTO represents the yearly overpayment.
type OverpaymentDTO struct {
	Requested  decimal.Decimal `json:"requested"`
	Applied    decimal.Decimal `json:"applied"`
	Free       decimal.Decimal `json:"free"`
	Chargeable decimal.Decimal `json:"chargeable"`
	Surcharge  decimal.Decimal `json:"surcharge"`
	Waived     bool            `json:"waived"`
}

// YearDTO represents one year of a schedule.
type YearDTO struct {
	Year                   int             `json:"year"`
	Months                 []MonthDTO      `json:"months,omitempty"`
	Overpayment            OverpaymentDTO  `json:"overpayment"`
	Balance                decimal.Decimal `json:"balance"`
	AccruedInterestAndFees decimal.Decimal `json:"accrued_interest_and_fees"`
	InterestPaid           decimal.Decimal `json:"interest_paid"`
}

// ReportDTO represents the final figures.
type ReportDTO struct {
	Principal              decimal.Decimal `json:"principal"`
	AccruedInterestAndFees decimal.Decimal `json:"accrued_interest_and_fees"`
	TotalCost              decimal.Decimal `json:"total_cost"`
	Years                  int             `json:"years"`
	EffectiveAnnualRate    decimal.Decimal `json:"effective_annual_rate"`
}

// ScheduleDTO is the response for a computed schedule.
type ScheduleDTO struct {
	Terms   factory.TermsJSON   `json:"terms"`
	Options factory.OptionsJSON `json:"options"`
	Years   []YearDTO           `json:"years"`
	Report  ReportDTO           `json:"report"`
}

// PresetDTO represents a named loan.
type PresetDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Terms       factory.TermsJSON `json:"terms"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func toScheduleDTO(s *amortization.Schedule, opts amortization.Options, includeMonths bool) ScheduleDTO {
	years := make([]YearDTO, len(s.Years))
	for i, y := range s.Years {
		years[i] = toYearDTO(y, includeMonths)
	}
	return ScheduleDTO{
		Terms: factory.ToJSON(s.Terms),
		Options: factory.OptionsJSON{
			Display:  string(opts.PaymentDisplay),
			Waiver:   string(opts.Waiver),
			MaxYears: opts.MaxYears,
		},
		Years:  years,
		Report: toReportDTO(s.Report),
	}
}

func toYearDTO(y amortization.YearSummary, includeMonths bool) YearDTO {
	dto := YearDTO{
		Year: y.Year,
		Overpayment: OverpaymentDTO{
			Requested:  money(y.Overpayment.Requested),
			Applied:    money(y.Overpayment.Applied),
			Free:       money(y.Overpayment.Free),
			Chargeable: money(y.Overpayment.Chargeable),
			Surcharge:  money(y.Overpayment.Surcharge),
			Waived:     y.Overpayment.Waived,
		},
		Balance:                money(y.Balance),
		AccruedInterestAndFees: money(y.AccruedInterestAndFees),
		InterestPaid:           money(y.InterestPaid),
	}
	if includeMonths {
		dto.Months = make([]MonthDTO, len(y.Months))
		for i, m := range y.Months {
			dto.Months[i] = MonthDTO{
				Month:          m.Month,
				InitialRate:    m.InitialRate,
				Payment:        money(m.Payment),
				Interest:       money(m.Interest),
				Principal:      money(m.Principal),
				DisplayPayment: money(m.DisplayPayment),
				Balance:        money(m.Balance),
				Accrued:        money(m.Accrued),
			}
		}
	}
	return dto
}

func toReportDTO(r amortization.Report) ReportDTO {
	return ReportDTO{
		Principal:              money(r.Principal),
		AccruedInterestAndFees: money(r.AccruedInterestAndFees),
		TotalCost:              money(r.TotalCost),
		Years:                  r.Years,
		EffectiveAnnualRate:    decimal.NewFromFloat(r.EffectiveAnnualRate).Round(4),
	}
}

func toPresetDTO(p presets.Preset) PresetDTO {
	return PresetDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Terms:       factory.ToJSON(p.Terms),
	}
}

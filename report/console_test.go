package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/mortgage-engine/amortization"
	"github.com/warp/mortgage-engine/presets"
	"github.com/warp/mortgage-engine/report"
)

type failingWriter struct{ writes int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("disk full")
}

func TestConsole_Schedule_Reference(t *testing.T) {
	schedule, err := amortization.Run(presets.Reference())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.NewConsole(&buf).Schedule(schedule))
	out := buf.String()

	assert.Contains(t, out, "Mortgage duration:            15 years\n")
	assert.Contains(t, out, "Amount borrowed:              £350000.00\n")
	assert.Contains(t, out, "Duration of initial payment:  27 months\n")
	assert.Contains(t, out, "Monthly interest afterwards:  4.09%\n")
	assert.Contains(t, out, "YEAR:                     1\n")
	assert.Contains(t, out, "Amount remaining:         £276666.67\n")
	assert.Contains(t, out, "YEAR:                     5\n")
	assert.Contains(t, out, "Amount remaining:         £0.00\n")
	assert.Contains(t, out, "Total cost:               "+report.NewConsole(nil).Money(schedule.Report.TotalCost)+"\n")
	assert.Contains(t, out, "(yearly)")
	assert.Contains(t, out, "(fee waived)")
	assert.Equal(t, 60, strings.Count(out, "  > Monthly payment "))
}

func TestConsole_SummaryOnly(t *testing.T) {
	schedule, err := amortization.Run(presets.Reference())
	require.NoError(t, err)

	var buf bytes.Buffer
	c := report.NewConsole(&buf)
	c.SummaryOnly = true
	require.NoError(t, c.Schedule(schedule))

	assert.NotContains(t, buf.String(), "Monthly payment")
	assert.Equal(t, 5, strings.Count(buf.String(), "YEAR:"))
}

func TestConsole_Stream_MatchesSchedule(t *testing.T) {
	engine := amortization.NewEngine(amortization.Options{})
	schedule, err := engine.Run(presets.Reference())
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, report.NewConsole(&want).Schedule(schedule))

	sim, err := engine.Start(presets.Reference())
	require.NoError(t, err)

	var got bytes.Buffer
	r, err := report.NewConsole(&got).Stream(sim)
	require.NoError(t, err)

	assert.Equal(t, schedule.Report, r)
	assert.Equal(t, want.String(), got.String())
}

func TestConsole_Stream_EngineFailure(t *testing.T) {
	terms := presets.Reference()
	terms.OverpaymentAmount = 0

	sim, err := amortization.NewEngine(amortization.Options{MaxYears: 2}).Start(terms)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = report.NewConsole(&buf).Stream(sim)
	assert.ErrorIs(t, err, amortization.ErrNonTerminating)
	assert.NotContains(t, buf.String(), "Total cost")
}

func TestConsole_MonthsAfterPayoffShowZero(t *testing.T) {
	// GIVEN: A loan repaid halfway through its second year
	schedule, err := amortization.Run(amortization.Terms{
		Principal:          24000,
		DurationYears:      2,
		FollowupAnnualRate: 5,
		OverpaymentAmount:  6000,
	})
	require.NoError(t, err)

	// WHEN: Rendering
	var buf bytes.Buffer
	require.NoError(t, report.NewConsole(&buf).Schedule(schedule))

	// THEN: The payoff month shows the repaid amount and later months nothing
	out := buf.String()
	assert.Contains(t, out, "  > Monthly payment 6:     £1000.00\n")
	assert.Contains(t, out, "  > Monthly payment 12:     £0.00\n")
}

func TestConsole_WriteErrorIsSticky(t *testing.T) {
	schedule, err := amortization.Run(presets.Reference())
	require.NoError(t, err)

	w := &failingWriter{}
	err = report.NewConsole(w).Schedule(schedule)
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, w.writes)
}

func TestConsole_Money(t *testing.T) {
	c := report.NewConsole(nil)
	assert.Equal(t, "£1234.50", c.Money(1234.5))
	assert.Equal(t, "£1.01", c.Money(1.005))
	assert.Equal(t, "£0.00", c.Money(0))

	c.Currency = "$"
	assert.Equal(t, "$10.00", c.Money(9.999))

	assert.Equal(t, "4.09%", report.Percent(4.09))
}

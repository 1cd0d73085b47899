/*
handlers_test.go - Tests for API handlers

Tests for:
- Schedule calculation (valid, malformed, missing fields, invalid terms)
- Option merging over server defaults
- Preset listing, lookup and runs
- Error statuses (400, 404, 422)
- Metrics exposure
*/
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/mortgage-engine/amortization"
	"github.com/warp/mortgage-engine/presets"
)

const referenceRequest = `{
	"terms": {
		"duration_years": 15,
		"principal": 350000,
		"setup_fee": 1525,
		"initial_annual_rate": 1.16,
		"initial_rate_months": 27,
		"followup_annual_rate": 4.09,
		"overpayment_amount": 50000,
		"overpayment_flat_fee": 50,
		"overpayment_free_fraction": 0,
		"overpayment_rate": 1
	}
}`

func newTestServer(t *testing.T) (http.Handler, *Handler) {
	t.Helper()
	h := NewHandler(amortization.Options{}, NewMetrics("test"))
	return NewRouter(h, []string{"http://localhost:5173"}), h
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeSchedule(t *testing.T, rec *httptest.ResponseRecorder) ScheduleDTO {
	t.Helper()
	var dto ScheduleDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	return dto
}

// =============================================================================
// SCHEDULE
// =============================================================================

func TestCalculateSchedule_Reference(t *testing.T) {
	// GIVEN: The reference loan
	router, _ := newTestServer(t)

	// WHEN: Posting it
	rec := do(t, router, http.MethodPost, "/api/schedule", referenceRequest)

	// THEN: The schedule matches a direct engine run
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	dto := decodeSchedule(t, rec)
	want, err := amortization.Run(presets.Reference())
	require.NoError(t, err)

	assert.Equal(t, want.Report.Years, dto.Report.Years)
	assert.Len(t, dto.Years, want.Report.Years)
	assert.True(t, money(want.Report.TotalCost).Equal(dto.Report.TotalCost))
	assert.True(t, dto.Report.Principal.Equal(money(350000)))
	assert.True(t, dto.Years[len(dto.Years)-1].Balance.IsZero())

	// Months are omitted unless requested
	assert.Empty(t, dto.Years[0].Months)

	// Defaults are echoed
	assert.Equal(t, string(amortization.DisplayAsWritten), dto.Options.Display)
	assert.Equal(t, string(amortization.WaiveAfterInitialPeriod), dto.Options.Waiver)
	assert.Equal(t, amortization.DefaultMaxYears, dto.Options.MaxYears)
}

func TestCalculateSchedule_IncludeMonths(t *testing.T) {
	router, _ := newTestServer(t)

	body := strings.Replace(referenceRequest, `"terms"`, `"include_months": true, "terms"`, 1)
	rec := do(t, router, http.MethodPost, "/api/schedule", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	dto := decodeSchedule(t, rec)
	for _, y := range dto.Years {
		assert.Len(t, y.Months, 12)
	}
	assert.True(t, dto.Years[0].Months[0].InitialRate)
}

func TestCalculateSchedule_RequestOptions(t *testing.T) {
	router, _ := newTestServer(t)

	body := strings.Replace(referenceRequest, `"terms"`,
		`"options": {"display": "active-rate", "waiver": "final-initial-year", "max_years": 40}, "terms"`, 1)
	rec := do(t, router, http.MethodPost, "/api/schedule", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	dto := decodeSchedule(t, rec)
	assert.Equal(t, "active-rate", dto.Options.Display)
	assert.Equal(t, "final-initial-year", dto.Options.Waiver)
	assert.Equal(t, 40, dto.Options.MaxYears)
}

func TestCalculateSchedule_ServerDefaults(t *testing.T) {
	// GIVEN: A server whose default horizon is too short for the loan
	h := NewHandler(amortization.Options{MaxYears: 2}, nil)
	router := NewRouter(h, nil)

	// WHEN: The request leaves max_years unset
	rec := do(t, router, http.MethodPost, "/api/schedule", referenceRequest)

	// THEN: The server default applies
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Calculation failed")
}

func TestCalculateSchedule_MaxYearsAboveServerLimit(t *testing.T) {
	// GIVEN: A server with a 40 year horizon
	h := NewHandler(amortization.Options{MaxYears: 40}, nil)
	router := NewRouter(h, nil)

	// WHEN: A request asks for a longer horizon
	body := strings.Replace(referenceRequest, `"terms"`, `"options": {"max_years": 300000}, "terms"`, 1)
	rec := do(t, router, http.MethodPost, "/api/schedule", body)

	// THEN: It is rejected before any simulation runs
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "exceeds the server limit of 40")

	rec = do(t, router, http.MethodPost, "/api/presets/reference/run?max_years=41", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The limit itself is accepted
	rec = do(t, router, http.MethodPost, "/api/presets/reference/run?max_years=40", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCalculateSchedule_DurationAboveMaximum(t *testing.T) {
	router, _ := newTestServer(t)

	body := strings.Replace(referenceRequest, `"duration_years": 15`, `"duration_years": 300000`, 1)
	rec := do(t, router, http.MethodPost, "/api/schedule", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duration_years")
}

func TestCalculateSchedule_BadRequests(t *testing.T) {
	router, _ := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed json", `{"terms": `, "Invalid request body"},
		{"unknown field", `{"loan": {}}`, "Invalid request body"},
		{"missing fields", `{"terms": {"principal": 1000}}`, "Invalid loan terms"},
		{"invalid terms", strings.Replace(referenceRequest, `"principal": 350000`, `"principal": -1`, 1), "Invalid loan terms"},
		{"bad display", strings.Replace(referenceRequest, `"terms"`, `"options": {"display": "sideways"}, "terms"`, 1), "Invalid options"},
		{"negative max years", strings.Replace(referenceRequest, `"terms"`, `"options": {"max_years": -1}, "terms"`, 1), "Invalid options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/schedule", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.message, resp.Error)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestCalculateSchedule_BodyTooLarge(t *testing.T) {
	router, _ := newTestServer(t)

	body := `{"terms": {"principal": "` + strings.Repeat("1", maxBodyBytes) + `"}}`
	rec := do(t, router, http.MethodPost, "/api/schedule", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

// =============================================================================
// PRESETS
// =============================================================================

func TestListPresets(t *testing.T) {
	router, _ := newTestServer(t)

	rec := do(t, router, http.MethodGet, "/api/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var dtos []PresetDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dtos))
	require.Len(t, dtos, len(presets.List()))
	assert.Equal(t, "reference", dtos[0].ID)
	require.NotNil(t, dtos[0].Terms.DurationYears)
	assert.Equal(t, 15, *dtos[0].Terms.DurationYears)
}

func TestGetPreset(t *testing.T) {
	router, _ := newTestServer(t)

	rec := do(t, router, http.MethodGet, "/api/presets/tracker", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var dto PresetDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, "tracker", dto.ID)
	assert.NotEmpty(t, dto.Description)

	rec = do(t, router, http.MethodGet, "/api/presets/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunPreset(t *testing.T) {
	router, _ := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/presets/two-year-fix/run?months=true&waiver=final-initial-year", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	dto := decodeSchedule(t, rec)
	assert.Equal(t, "final-initial-year", dto.Options.Waiver)
	assert.NotEmpty(t, dto.Years[0].Months)
	assert.True(t, dto.Years[len(dto.Years)-1].Balance.IsZero())
}

func TestRunPreset_Errors(t *testing.T) {
	router, _ := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown preset", "/api/presets/nope/run", http.StatusNotFound},
		{"bad max_years", "/api/presets/reference/run?max_years=many", http.StatusBadRequest},
		{"bad waiver", "/api/presets/reference/run?waiver=never", http.StatusBadRequest},
		{"horizon too short", "/api/presets/no-overpayment/run?max_years=5", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.path, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

// =============================================================================
// OPS
// =============================================================================

func TestHealth(t *testing.T) {
	router, _ := newTestServer(t)

	rec := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetrics_CountOutcomes(t *testing.T) {
	router, _ := newTestServer(t)

	do(t, router, http.MethodPost, "/api/presets/reference/run", "")
	do(t, router, http.MethodPost, "/api/presets/no-overpayment/run?max_years=3", "")
	do(t, router, http.MethodPost, "/api/schedule",
		strings.Replace(referenceRequest, `"principal": 350000`, `"principal": 0`, 1))

	rec := do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `test_simulations_total{outcome="ok"} 1`)
	assert.Contains(t, body, `test_simulations_total{outcome="non_terminating"} 1`)
	assert.Contains(t, body, `test_simulations_total{outcome="invalid_terms"} 1`)
	assert.Contains(t, body, "test_simulated_years_count 1")

	// Rejected terms never ran, so only the two runs are timed
	assert.Contains(t, body, "test_simulation_duration_seconds_count 2")
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeOK, outcomeOf(nil))
	assert.Equal(t, OutcomeInvalidTerms, outcomeOf(&amortization.InvalidTermsError{Field: "principal"}))
	assert.Equal(t, OutcomeNonTerminating, outcomeOf(&amortization.NonTerminatingError{Years: 3}))
	assert.Equal(t, OutcomeDegenerate, outcomeOf(amortization.ErrArithmeticDegenerate))
	assert.Equal(t, OutcomeError, outcomeOf(assert.AnError))
}

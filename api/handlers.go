/*
handlers.go - HTTP API handlers for the mortgage engine

PURPOSE:
  Exposes the amortization engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Schedules:
    POST   /api/schedule              Compute a schedule from terms

  Presets:
    GET    /api/presets               List named loans
    GET    /api/presets/{id}          Get a named loan's terms
    POST   /api/presets/{id}/run      Compute a named loan's schedule
                                      Query: display, waiver, max_years, months

  Ops:
    GET    /health                    Liveness
    GET    /metrics                   Prometheus metrics

REQUEST FLOW:
  1. Parse HTTP request
  2. Convert terms and options through the factory
  3. Run the engine
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed JSON, missing fields, invalid terms or options,
         max_years above the server's horizon
  - 404: Unknown preset
  - 422: Terms that do not amortize within the year horizon

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/mortgage-engine/amortization"
	"github.com/warp/mortgage-engine/factory"
	"github.com/warp/mortgage-engine/presets"
)

// maxBodyBytes bounds a schedule request body.
const maxBodyBytes = 1 << 16

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Factory  *factory.TermsFactory
	Defaults amortization.Options
	Metrics  *Metrics
}

// NewHandler creates a handler with the given engine defaults.
func NewHandler(defaults amortization.Options, metrics *Metrics) *Handler {
	return &Handler{
		Factory:  factory.NewTermsFactory(),
		Defaults: defaults,
		Metrics:  metrics,
	}
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// CalculateSchedule computes a schedule from the request body.
func (h *Handler) CalculateSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	terms, err := h.Factory.CreateTerms(req.Terms)
	if err != nil {
		h.Metrics.Reject(err)
		writeError(w, http.StatusBadRequest, "Invalid loan terms", err)
		return
	}

	opts, err := h.options(req.Options)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid options", err)
		return
	}

	h.run(w, terms, opts, req.IncludeMonths)
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// ListPresets returns every named loan.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	list := presets.List()
	dtos := make([]PresetDTO, len(list))
	for i, p := range list {
		dtos[i] = toPresetDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPreset returns one named loan.
func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := presets.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Preset not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toPresetDTO(p))
}

// RunPreset computes the schedule of a named loan.
func (h *Handler) RunPreset(w http.ResponseWriter, r *http.Request) {
	p, err := presets.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Preset not found", err)
		return
	}

	q := r.URL.Query()
	oj := factory.OptionsJSON{
		Display: q.Get("display"),
		Waiver:  q.Get("waiver"),
	}
	if v := q.Get("max_years"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid max_years", err)
			return
		}
		oj.MaxYears = n
	}

	opts, err := h.options(oj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid options", err)
		return
	}

	h.run(w, p.Terms, opts, q.Get("months") == "true")
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// options fills unset request options from the server defaults. The
// server's year horizon is also the largest a request may ask for.
func (h *Handler) options(oj factory.OptionsJSON) (amortization.Options, error) {
	limit := h.Defaults.MaxYears
	if limit <= 0 {
		limit = amortization.DefaultMaxYears
	}

	if oj.Display == "" {
		oj.Display = string(h.Defaults.PaymentDisplay)
	}
	if oj.Waiver == "" {
		oj.Waiver = string(h.Defaults.Waiver)
	}
	if oj.MaxYears == 0 {
		oj.MaxYears = limit
	}
	if oj.MaxYears > limit {
		return amortization.Options{}, fmt.Errorf("max_years %d exceeds the server limit of %d", oj.MaxYears, limit)
	}
	return h.Factory.CreateOptions(oj)
}

func (h *Handler) run(w http.ResponseWriter, terms amortization.Terms, opts amortization.Options, includeMonths bool) {
	engine := amortization.NewEngine(opts)

	start := time.Now()
	schedule, err := engine.Run(terms)
	h.Metrics.Observe(schedule, err, time.Since(start))

	if err != nil {
		status := http.StatusUnprocessableEntity
		if amortization.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Calculation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleDTO(schedule, engine.Options, includeMonths))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		status = http.StatusRequestEntityTooLarge
	}
	writeJSON(w, status, resp)
}

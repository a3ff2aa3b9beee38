// Package handlers exposes the hydrostatic engine over HTTP. Handlers stay
// thin: decode, call the service, map the error taxonomy onto statuses.
// Solver non-convergence is a normal 200 response with converged=false.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/export"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
)

// Handlers serves computation endpoints.
type Handlers struct {
	service  *hydro.Service
	exporter *export.Service // nil disables persisted exports
	log      zerolog.Logger
}

// NewHandlers creates hydro handlers. exporter may be nil.
func NewHandlers(service *hydro.Service, exporter *export.Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		service:  service,
		exporter: exporter,
		log:      log.With().Str("handler", "hydro").Logger(),
	}
}

// RegisterRoutes registers computation routes on the router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/vessels/{vesselID}/hydrostatics", func(r chi.Router) {
		r.Post("/", h.ComputeAt)
		r.Post("/table", h.ComputeTable)
	})
	r.Post("/vessels/{vesselID}/trim/solve", h.SolveTrim)
	r.Route("/vessels/{vesselID}/curves", func(r chi.Router) {
		r.Post("/", h.GenerateCurves)
		r.Post("/bonjean", h.BonjeanCurves)
	})
	r.Post("/loadcases/{loadcaseID}/stability", h.ComputeStability)
}

type computeRequest struct {
	LoadcaseID string          `json:"loadcase_id"`
	Draft      decimal.Decimal `json:"draft"`
	Trim       decimal.Decimal `json:"trim"`
	Heel       decimal.Decimal `json:"heel"`
}

// ComputeAt handles POST /api/vessels/{vesselID}/hydrostatics
func (h *Handlers) ComputeAt(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.service.ComputeAt(r.Context(), chi.URLParam(r, "vesselID"), req.LoadcaseID,
		hydro.Condition{Draft: req.Draft, Trim: req.Trim, Heel: req.Heel})
	if err != nil {
		h.writeError(w, err, "Computation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type tableRequest struct {
	LoadcaseID string            `json:"loadcase_id"`
	Drafts     []decimal.Decimal `json:"drafts"`
	Export     string            `json:"export,omitempty"` // "", "csv" or "json"
}

type tableResponse struct {
	Results []*hydro.HydroResult `json:"results"`
	Export  *export.Result       `json:"export,omitempty"`
}

// ComputeTable handles POST /api/vessels/{vesselID}/hydrostatics/table
func (h *Handlers) ComputeTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Drafts) == 0 {
		http.Error(w, "drafts must not be empty", http.StatusBadRequest)
		return
	}
	vesselID := chi.URLParam(r, "vesselID")
	results, err := h.service.ComputeTable(r.Context(), vesselID, req.LoadcaseID, req.Drafts)
	if err != nil {
		h.writeError(w, err, "Table computation failed")
		return
	}

	resp := tableResponse{Results: results}
	if req.Export != "" && h.exporter != nil {
		flat := make([]hydro.HydroResult, len(results))
		for i, res := range results {
			flat[i] = *res
		}
		exp, err := h.exporter.ExportHydroTable(r.Context(), vesselID, flat, export.Format(req.Export))
		if err != nil {
			h.writeError(w, err, "Table export failed")
			return
		}
		resp.Export = exp
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type trimRequest struct {
	LoadcaseID     string           `json:"loadcase_id"`
	Target         decimal.Decimal  `json:"target"`
	TargetIsVolume bool             `json:"target_is_volume"`
	InitialFwd     decimal.Decimal  `json:"initial_fwd"`
	InitialAft     decimal.Decimal  `json:"initial_aft"`
	MaxIterations  int              `json:"max_iterations"`
	Tolerance      decimal.Decimal  `json:"tolerance"`
	TargetLCG      *decimal.Decimal `json:"target_lcg,omitempty"`
}

// SolveTrim handles POST /api/vessels/{vesselID}/trim/solve
func (h *Handlers) SolveTrim(w http.ResponseWriter, r *http.Request) {
	var req trimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.service.SolveTrim(r.Context(), chi.URLParam(r, "vesselID"), req.LoadcaseID,
		hydro.TrimSolveRequest{
			Target:         req.Target,
			TargetIsVolume: req.TargetIsVolume,
			InitialFwd:     req.InitialFwd,
			InitialAft:     req.InitialAft,
			MaxIterations:  req.MaxIterations,
			Tolerance:      req.Tolerance,
			TargetLCG:      req.TargetLCG,
		})
	if err != nil {
		h.writeError(w, err, "Trim solve failed")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type curvesRequest struct {
	LoadcaseID string            `json:"loadcase_id"`
	Types      []hydro.CurveType `json:"types"`
	MinDraft   decimal.Decimal   `json:"min_draft"`
	MaxDraft   decimal.Decimal   `json:"max_draft"`
	Points     int               `json:"points"`
	Export     string            `json:"export,omitempty"`
}

type curvesResponse struct {
	Curves []hydro.Curve  `json:"curves"`
	Export *export.Result `json:"export,omitempty"`
}

// GenerateCurves handles POST /api/vessels/{vesselID}/curves
func (h *Handlers) GenerateCurves(w http.ResponseWriter, r *http.Request) {
	var req curvesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	vesselID := chi.URLParam(r, "vesselID")
	curves, err := h.service.GenerateCurves(r.Context(), vesselID, req.LoadcaseID,
		req.Types, req.MinDraft, req.MaxDraft, req.Points)
	if err != nil {
		h.writeError(w, err, "Curve generation failed")
		return
	}

	resp := curvesResponse{Curves: curves}
	if req.Export != "" && h.exporter != nil {
		exp, err := h.exporter.ExportCurves(r.Context(), vesselID, curves, export.Format(req.Export))
		if err != nil {
			h.writeError(w, err, "Curve export failed")
			return
		}
		resp.Export = exp
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type bonjeanRequest struct {
	MinDraft decimal.Decimal `json:"min_draft"`
	MaxDraft decimal.Decimal `json:"max_draft"`
	Points   int             `json:"points"`
	Export   string          `json:"export,omitempty"`
}

type bonjeanResponse struct {
	Curves []hydro.BonjeanCurve `json:"curves"`
	Export *export.Result       `json:"export,omitempty"`
}

// BonjeanCurves handles POST /api/vessels/{vesselID}/curves/bonjean
func (h *Handlers) BonjeanCurves(w http.ResponseWriter, r *http.Request) {
	var req bonjeanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	vesselID := chi.URLParam(r, "vesselID")
	curves, err := h.service.BonjeanCurves(r.Context(), vesselID, req.MinDraft, req.MaxDraft, req.Points)
	if err != nil {
		h.writeError(w, err, "Bonjean generation failed")
		return
	}

	resp := bonjeanResponse{Curves: curves}
	if req.Export != "" && h.exporter != nil {
		exp, err := h.exporter.ExportBonjean(r.Context(), vesselID, curves, export.Format(req.Export))
		if err != nil {
			h.writeError(w, err, "Bonjean export failed")
			return
		}
		resp.Export = exp
	}
	h.writeJSON(w, http.StatusOK, resp)
}

type stabilityRequest struct {
	MinAngle      decimal.Decimal       `json:"min_angle"`
	MaxAngle      decimal.Decimal       `json:"max_angle"`
	Increment     decimal.Decimal       `json:"increment"`
	Method        hydro.StabilityMethod `json:"method,omitempty"`
	CheckCriteria bool                  `json:"check_criteria"`
	Export        string                `json:"export,omitempty"`
}

type stabilityResponse struct {
	Curve    *hydro.StabilityCurve `json:"curve"`
	Criteria *hydro.CriteriaResult `json:"criteria,omitempty"`
	Export   *export.Result        `json:"export,omitempty"`
}

// ComputeStability handles POST /api/loadcases/{loadcaseID}/stability
func (h *Handlers) ComputeStability(w http.ResponseWriter, r *http.Request) {
	var req stabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	loadcaseID := chi.URLParam(r, "loadcaseID")
	curve, err := h.service.ComputeStabilityCurve(r.Context(), loadcaseID,
		req.MinAngle, req.MaxAngle, req.Increment, req.Method)
	if err != nil {
		h.writeError(w, err, "Stability sweep failed")
		return
	}

	resp := stabilityResponse{Curve: curve}
	if req.CheckCriteria {
		verdict, err := h.service.CheckCriteria(curve)
		if err != nil {
			h.writeError(w, err, "Criteria check failed")
			return
		}
		resp.Criteria = verdict
	}
	if req.Export != "" && h.exporter != nil {
		report := &export.StabilityReport{Curve: curve, Criteria: resp.Criteria}
		exp, err := h.exporter.ExportStabilityReport(r.Context(), loadcaseID, report, export.Format(req.Export))
		if err != nil {
			h.writeError(w, err, "Stability export failed")
			return
		}
		resp.Export = exp
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// writeError maps domain errors onto HTTP statuses. Invalid operations on
// otherwise well-formed input (draft outside the hull, degenerate curves)
// come back as 422.
func (h *Handlers) writeError(w http.ResponseWriter, err error, msg string) {
	var invalidOp *domain.InvalidOperationError
	switch {
	case errors.As(err, &invalidOp):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case domain.IsBadRequest(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Error().Err(err).Msg(msg)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Package handlers exposes loadcase CRUD over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/loadcases"
)

// Handlers serves loadcase endpoints.
type Handlers struct {
	repo *loadcases.Repository
	log  zerolog.Logger
}

// NewHandlers creates loadcase handlers.
func NewHandlers(repo *loadcases.Repository, log zerolog.Logger) *Handlers {
	return &Handlers{
		repo: repo,
		log:  log.With().Str("handler", "loadcases").Logger(),
	}
}

// RegisterRoutes registers loadcase routes on the router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/vessels/{vesselID}/loadcases", func(r chi.Router) {
		r.Get("/", h.ListByVessel)
		r.Post("/", h.Create)
	})
	r.Route("/loadcases/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

type loadcaseRequest struct {
	Name               string           `json:"name"`
	Rho                decimal.Decimal  `json:"rho"`
	KG                 decimal.Decimal  `json:"kg"`
	TargetDisplacement *decimal.Decimal `json:"target_displacement"`
}

// ListByVessel handles GET /api/vessels/{vesselID}/loadcases
func (h *Handlers) ListByVessel(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListByVessel(chi.URLParam(r, "vesselID"))
	if err != nil {
		h.writeError(w, err, "Failed to list loadcases")
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// Create handles POST /api/vessels/{vesselID}/loadcases
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req loadcaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name must not be empty", http.StatusBadRequest)
		return
	}
	now := time.Now().UTC()
	lc := &loadcases.Loadcase{CreatedAt: now, UpdatedAt: now}
	lc.ID = uuid.NewString()
	lc.VesselID = chi.URLParam(r, "vesselID")
	lc.Name = req.Name
	lc.Rho = req.Rho
	lc.KG = req.KG
	lc.TargetDisplacement = req.TargetDisplacement
	if err := h.repo.Create(lc); err != nil {
		h.writeError(w, err, "Failed to create loadcase")
		return
	}
	h.writeJSON(w, http.StatusCreated, lc)
}

// Get handles GET /api/loadcases/{id}
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	lc, err := h.repo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Failed to get loadcase")
		return
	}
	h.writeJSON(w, http.StatusOK, lc)
}

// Update handles PUT /api/loadcases/{id}
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	var req loadcaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	lc, err := h.repo.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Failed to get loadcase")
		return
	}
	lc.Name = req.Name
	lc.Rho = req.Rho
	lc.KG = req.KG
	lc.TargetDisplacement = req.TargetDisplacement
	if err := h.repo.Update(lc); err != nil {
		h.writeError(w, err, "Failed to update loadcase")
		return
	}
	h.writeJSON(w, http.StatusOK, lc)
}

// Delete handles DELETE /api/loadcases/{id}
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err, "Failed to delete loadcase")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeError(w http.ResponseWriter, err error, msg string) {
	switch {
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

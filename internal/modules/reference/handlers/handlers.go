// Package handlers exposes the reference catalogs over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/reference"
)

// Handlers serves the read-only reference endpoints.
type Handlers struct {
	repo *reference.Repository
	log  zerolog.Logger
}

// NewHandlers creates reference handlers.
func NewHandlers(repo *reference.Repository, log zerolog.Logger) *Handlers {
	return &Handlers{
		repo: repo,
		log:  log.With().Str("handler", "reference").Logger(),
	}
}

// RegisterRoutes registers reference routes on the router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/reference", func(r chi.Router) {
		r.Get("/water-densities", h.ListWaterDensities)
		r.Get("/water-densities/{key}", h.GetWaterDensity)
		r.Get("/criteria", h.ListCriteriaSets)
		r.Get("/criteria/{key}", h.GetCriteriaSet)
	})
}

// ListWaterDensities handles GET /api/reference/water-densities
func (h *Handlers) ListWaterDensities(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListWaterDensities()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list water densities")
		http.Error(w, "Failed to list water densities", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// GetWaterDensity handles GET /api/reference/water-densities/{key}
func (h *Handlers) GetWaterDensity(w http.ResponseWriter, r *http.Request) {
	d, err := h.repo.GetWaterDensity(chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, err, "Failed to get water density")
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

// ListCriteriaSets handles GET /api/reference/criteria
func (h *Handlers) ListCriteriaSets(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListCriteriaSets()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list criteria sets")
		http.Error(w, "Failed to list criteria sets", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// GetCriteriaSet handles GET /api/reference/criteria/{key}
func (h *Handlers) GetCriteriaSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.repo.GetCriteriaSet(chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, err, "Failed to get criteria set")
		return
	}
	h.writeJSON(w, http.StatusOK, set)
}

func (h *Handlers) writeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.log.Error().Err(err).Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

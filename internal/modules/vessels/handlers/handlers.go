// Package handlers exposes the vessel fleet and geometry import/export
// over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/vessels"
)

// Handlers serves vessel CRUD and offset table endpoints.
type Handlers struct {
	service *vessels.Service
	log     zerolog.Logger
}

// NewHandlers creates vessel handlers.
func NewHandlers(service *vessels.Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		log:     log.With().Str("handler", "vessels").Logger(),
	}
}

// RegisterRoutes registers vessel routes on the router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/vessels", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Get("/geometry", h.ExportGeometry)
			r.Put("/geometry", h.ImportGeometry)
			r.Post("/geometry/archive", h.ImportGeometryArchive)
		})
	})
}

type vesselRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	LengthPP    *decimal.Decimal `json:"length_pp"`
	Beam        *decimal.Decimal `json:"beam"`
	Depth       *decimal.Decimal `json:"depth"`
}

// List handles GET /api/vessels
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListVessels()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list vessels")
		http.Error(w, "Failed to list vessels", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// Create handles POST /api/vessels
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req vesselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	v, err := h.service.CreateVessel(req.Name, req.Description, req.LengthPP, req.Beam, req.Depth)
	if err != nil {
		h.writeError(w, err, "Failed to create vessel")
		return
	}
	h.writeJSON(w, http.StatusCreated, v)
}

// Get handles GET /api/vessels/{id}
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.GetVessel(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Failed to get vessel")
		return
	}
	h.writeJSON(w, http.StatusOK, v)
}

// Update handles PUT /api/vessels/{id}
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	var req vesselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	v, err := h.service.GetVessel(id)
	if err != nil {
		h.writeError(w, err, "Failed to get vessel")
		return
	}
	v.Name = req.Name
	v.Description = req.Description
	v.LengthPP = req.LengthPP
	v.Beam = req.Beam
	v.Depth = req.Depth
	if err := h.service.UpdateVessel(v); err != nil {
		h.writeError(w, err, "Failed to update vessel")
		return
	}
	h.writeJSON(w, http.StatusOK, v)
}

// Delete handles DELETE /api/vessels/{id}
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVessel(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err, "Failed to delete vessel")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportGeometry handles PUT /api/vessels/{id}/geometry with a CSV body.
func (h *Handlers) ImportGeometry(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.ImportOffsetsCSV(chi.URLParam(r, "id"), r.Body)
	if err != nil {
		h.writeError(w, err, "Failed to import geometry")
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

type archiveImportRequest struct {
	Path string `json:"path"`
}

// ImportGeometryArchive handles POST /api/vessels/{id}/geometry/archive.
// The body names a server-local SQLite archive exported by a lines-plan
// tool; its offset table replaces the vessel's geometry.
func (h *Handlers) ImportGeometryArchive(w http.ResponseWriter, r *http.Request) {
	var req archiveImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "Request body must name an archive path", http.StatusBadRequest)
		return
	}
	summary, err := h.service.ImportFromArchive(chi.URLParam(r, "id"), req.Path)
	if err != nil {
		h.writeError(w, err, "Failed to import geometry archive")
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// ExportGeometry handles GET /api/vessels/{id}/geometry as a CSV download.
func (h *Handlers) ExportGeometry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="offsets-`+id+`.csv"`)
	if err := h.service.ExportOffsetsCSV(id, w); err != nil {
		h.log.Error().Err(err).Str("vessel", id).Msg("Failed to export geometry")
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Vessel not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to export geometry", http.StatusInternalServerError)
	}
}

// writeError maps domain errors onto HTTP statuses.
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

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/abhee15/navarch-studio-sub003/internal/domain"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/hydro"
)

// StabilityStreamHandler streams a righting-arm sweep over a websocket: one
// "point" event per computed angle, then a "done" event with the full curve.
// Long sweeps on fine geometry can take seconds; the stream lets clients
// draw the curve as it grows.
type StabilityStreamHandler struct {
	service *hydro.Service
	log     zerolog.Logger
}

// NewStabilityStreamHandler creates the stream handler.
func NewStabilityStreamHandler(service *hydro.Service, log zerolog.Logger) *StabilityStreamHandler {
	return &StabilityStreamHandler{
		service: service,
		log:     log.With().Str("handler", "stability-stream").Logger(),
	}
}

type streamEvent struct {
	Type  string                     `json:"type"` // "point", "done" or "error"
	Point *hydro.StabilityCurvePoint `json:"point,omitempty"`
	Curve *hydro.StabilityCurve      `json:"curve,omitempty"`
	Error string                     `json:"error,omitempty"`
}

// ServeHTTP handles GET /api/loadcases/{loadcaseID}/stability/stream with
// query parameters min_angle, max_angle, increment and method.
func (h *StabilityStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	loadcaseID := chi.URLParam(r, "loadcaseID")

	minAngle, err1 := decimal.NewFromString(r.URL.Query().Get("min_angle"))
	maxAngle, err2 := decimal.NewFromString(r.URL.Query().Get("max_angle"))
	increment, err3 := decimal.NewFromString(r.URL.Query().Get("increment"))
	if err1 != nil || err2 != nil || err3 != nil {
		http.Error(w, "min_angle, max_angle and increment are required decimal parameters", http.StatusBadRequest)
		return
	}
	method := hydro.StabilityMethod(r.URL.Query().Get("method"))

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	ctx := r.Context()
	observer := func(pt hydro.StabilityCurvePoint) {
		if err := wsjson.Write(ctx, conn, streamEvent{Type: "point", Point: &pt}); err != nil {
			h.log.Debug().Err(err).Msg("Stream write failed, client likely gone")
		}
	}

	curve, err := h.service.ComputeStabilityCurve(ctx, loadcaseID,
		minAngle, maxAngle, increment, method, observer)
	if err != nil {
		msg := "stability sweep failed"
		if domain.IsBadRequest(err) {
			msg = err.Error()
		}
		_ = wsjson.Write(ctx, conn, streamEvent{Type: "error", Error: msg})
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}

	if err := wsjson.Write(ctx, conn, streamEvent{Type: "done", Curve: curve}); err != nil {
		h.log.Debug().Err(err).Msg("Failed to write final stream event")
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

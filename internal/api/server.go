// Package api exposes the HTTP interface for the price service.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/krishi-shayak/mandi-prices/internal/config"
	"github.com/krishi-shayak/mandi-prices/internal/mandi"
	"github.com/krishi-shayak/mandi-prices/internal/metrics"
	"github.com/krishi-shayak/mandi-prices/internal/provider/synthetic"
)

// PriceService is the narrow contract the HTTP layer needs from the
// orchestrator.
type PriceService interface {
	GetCropPrices(ctx context.Context, state, district, cropName string, mockOnly *bool) mandi.PriceResponse
}

// Server wires HTTP handlers to the fetch orchestrator.
type Server struct {
	router chi.Router
	prices PriceService
	cfg    config.Config
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(prices PriceService, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		prices: prices,
		cfg:    cfg,
		logger: logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(observeMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Get("/configz", s.configz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/crop-prices", func(r chi.Router) {
			r.Get("/", s.getCropPrices)
			r.Get("/states", s.listStates)
			r.Get("/crops", s.listCrops)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// The synthetic provider guarantees a response even with portals down.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) configz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Summary())
}

// getCropPrices handles GET /api/v1/crop-prices?state=&district=&crop_name=.
// The response body is the orchestrator's envelope, verbatim. A missing
// state is the only caller error surfaced as an HTTP status.
func (s *Server) getCropPrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := strings.TrimSpace(q.Get("state"))
	if state == "" {
		writeError(w, http.StatusBadRequest, "state query parameter is required")
		return
	}

	mockOnly, err := parseOptionalBool(q.Get("mock_only"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid mock_only value")
		return
	}

	resp := s.prices.GetCropPrices(r.Context(), state, q.Get("district"), q.Get("crop_name"), mockOnly)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listStates(w http.ResponseWriter, _ *http.Request) {
	states := synthetic.States()
	writeJSON(w, http.StatusOK, map[string]any{
		"states": states,
		"count":  len(states),
	})
}

func (s *Server) listCrops(w http.ResponseWriter, r *http.Request) {
	state := strings.TrimSpace(r.URL.Query().Get("state"))
	crops := synthetic.Crops(state)
	payload := map[string]any{
		"crops": crops,
		"count": len(crops),
	}
	if state != "" {
		payload["state"] = state
	}
	writeJSON(w, http.StatusOK, payload)
}

func parseOptionalBool(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &val, nil
}

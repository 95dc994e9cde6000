package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/wanderlist/pkg/metrics"
)

// StoreStatus reports whether the record store is reachable.
type StoreStatus interface {
	StoreConnected() bool
}

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	store   StoreStatus
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store StoreStatus) *HealthHandler {
	return &HealthHandler{
		store:   store,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// HandleHealth handles GET /healthz. The process answers 200 even when the
// store is unavailable; the store field carries that state.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	store := "unavailable"
	if h.store != nil && h.store.StoreConnected() {
		store = "connected"
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Store: store})
}

// HandleMetrics handles GET /metrics using our custom registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/wanderlist/internal/domain/destination"
	"github.com/okian/wanderlist/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	List(ctx context.Context) ([]destination.Destination, error)
	Get(ctx context.Context, id string) (destination.Destination, error)
	Create(ctx context.Context, f destination.Fields) (destination.Destination, error)
	Update(ctx context.Context, id string, f destination.Fields) (destination.Destination, error)
	Delete(ctx context.Context, id string) error

	// StoreConnected reports the result of the startup connection attempt.
	StoreConnected() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	destinationsHandler *DestinationsHandler
	logger              logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		healthHandler:       NewHealthHandler(deps),
		statsHandler:        NewStatsHandler(statsProvider),
		destinationsHandler: NewDestinationsHandler(deps, log),
		logger:              log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	d := s.destinationsHandler

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/destinations", MetricsMiddleware(d.HandleList, "destinations"))
	mux.HandleFunc("POST /api/destinations", MetricsMiddleware(d.HandleCreate, "destinations"))
	mux.HandleFunc("GET /api/destinations/{id}", MetricsMiddleware(d.HandleGet, "destination"))
	mux.HandleFunc("PUT /api/destinations/{id}", MetricsMiddleware(d.HandleUpdate, "destination"))
	mux.HandleFunc("DELETE /api/destinations/{id}", MetricsMiddleware(d.HandleDelete, "destination"))
}

// Handler wraps h with the middleware chain shared by every route.
func (s *Server) Handler(h http.Handler, o MiddlewareOptions) http.Handler {
	return Chain(h,
		RequestID,
		Recover(s.logger),
		CORS(o.CORSOrigin),
		BodyLimit(o.MaxBodyBytes),
	)
}

// messageResponse is the body of every non-2xx reply and of DELETE.
type messageResponse struct {
	Message string `json:"message"`
}

// unavailableResponse keeps the data key so list consumers can fall back blindly.
type unavailableResponse struct {
	Message string   `json:"message"`
	Data    []string `json:"data"`
}

// validationResponse lists the fields a create or update left empty.
type validationResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

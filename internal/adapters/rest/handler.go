package rest

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewilliams-labs/beatlens/internal/core/services"
	"github.com/ewilliams-labs/beatlens/internal/metrics"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc     *services.Orchestrator // Dependency on the Core Service
	metrics *metrics.Metrics       // Optional; nil in tests
	router  *http.ServeMux         // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Orchestrator, m *metrics.Metrics) *Handler {
	h := &Handler{
		svc:     svc,
		metrics: m,
		router:  http.NewServeMux(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("POST /api/analyze", h.Analyze)
	h.router.HandleFunc("GET /api/results/latest", h.LatestResult)
	h.router.Handle("GET /metrics", promhttp.Handler())
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "message": "BeatLens is live 🎧"})
}

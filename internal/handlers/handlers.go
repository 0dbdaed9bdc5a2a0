package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"listify/internal/metrics"
	"listify/internal/middleware"
)

// Handlers serves the operational endpoints next to the shell.
type Handlers struct {
	stats   metrics.StatsProvider
	user    string
	started time.Time
}

// New creates handlers reporting on the session of user. stats may be nil.
func New(stats metrics.StatsProvider, user string) *Handlers {
	return &Handlers{
		stats:   stats,
		user:    user,
		started: time.Now(),
	}
}

// MetricsHandler returns the Prometheus metrics handler
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// NewRouter registers every endpoint on a new router.
func (h *Handlers) NewRouter(logCfg middleware.LoggingConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logger(logCfg))

	r.Handle("/metrics", h.MetricsHandler()).Methods(http.MethodGet).Name("metrics")
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet).Name("health")
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead).Name("liveness")
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet).Name("version")

	return r
}

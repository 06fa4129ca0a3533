// Package rest exposes stored GKG records and ingest runs over HTTP.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/gkgfeed/internal/config"
	"github.com/heartmarshall/gkgfeed/internal/metrics"
	"github.com/heartmarshall/gkgfeed/internal/transport/middleware"
)

// Deps are the collaborators of the HTTP surface.
type Deps struct {
	Log     *slog.Logger
	Records RecordReader
	Runs    RunReader
	Health  *HealthHandler
	Metrics *metrics.Metrics
	// Limiter throttles the data endpoints. Nil disables throttling.
	Limiter *middleware.RateLimiter
	Server  config.ServerConfig
	CORS    config.CORSConfig
}

// NewRouter builds the HTTP handler. Probes and /metrics bypass the rate limiter.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/live", d.Health.Live)
	r.Get("/ready", d.Health.Ready)
	r.Get("/health", d.Health.Health)
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	records := NewRecordHandler(d.Records, d.Log)
	runs := NewRunHandler(d.Runs, d.Log)

	var limit middleware.Middleware
	if d.Limiter != nil {
		limit = d.Limiter.Limit(d.Server.RateLimit)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Chain(limit))
		r.Get("/records", records.List)
		r.Get("/records/{id}", records.Get)
		r.Get("/runs", runs.List)
		r.Get("/runs/{id}", runs.Get)
	})

	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.Recovery(d.Log),
		middleware.CORS(d.CORS),
	)(r)
}

// internal/api/router.go
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP surface: REST API, WebSocket endpoint and
// prometheus metrics on one listener.
func NewRouter(h *Handler, reg *prometheus.Registry) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/devices", h.HandleCreateDevice)
		r.Get("/devices", h.HandleListDevices)

		r.Post("/metrics/types", h.HandleCreateMetric)
		r.Get("/metrics/types", h.HandleListMetrics)
		r.Post("/metrics/{deviceID}/data", h.HandleIngest)
		r.Get("/metrics/{deviceID}/data", h.HandleRecentData)
		r.Get("/metrics/{deviceID}/summary", h.HandleSummary)

		r.Post("/commands/{deviceID}", h.HandleCommand)
		r.Get("/commands/{deviceID}", h.HandleRecentCommands)
	})

	r.Get("/ws", h.HandleWebSocket)
	r.Get("/healthz", h.HandleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"safetyboard/internal/incidents"
)

type RouterOptions struct {
	SubmitDelay    time.Duration
	AllowedOrigins []string
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

func NewRouter(logger *slog.Logger, store *incidents.Store, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(withCORS(opts.AllowedOrigins))
	r.Use(requestID)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	listHandler := &incidents.ListHandler{
		Store:       store,
		Logger:      logger,
		SubmitDelay: opts.SubmitDelay,
	}
	detailHandler := &incidents.DetailHandler{Store: store, Logger: logger}
	toggleHandler := &incidents.ToggleHandler{Store: store, Logger: logger}
	filterHandler := &incidents.FilterHandler{Store: store, Logger: logger}

	r.Route("/api/v1", func(api chi.Router) {
		api.Method(http.MethodGet, "/incidents", listHandler)
		api.Method(http.MethodPost, "/incidents", listHandler)
		api.Method(http.MethodGet, "/incidents/{id}", detailHandler)
		api.Method(http.MethodPost, "/incidents/{id}/toggle", toggleHandler)
		api.Method(http.MethodGet, "/filter", filterHandler)
		api.Method(http.MethodPut, "/filter", filterHandler)
	})

	return r
}

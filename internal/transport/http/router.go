package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eiareport/internal/config"
)

// RouterDeps collects everything the admin router serves.
type RouterDeps struct {
	Trigger    UpdateTrigger
	Gatherer   prometheus.Gatherer
	ReportPath string
	Logger     *slog.Logger
}

// NewRouter assembles the admin surface: GET /healthz, GET /metrics and
// POST /api/update.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", NewHealthHandler(deps.ReportPath, logger).Check)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	r.Post("/api/update", NewUpdateHandler(deps.Trigger, logger).Trigger)

	return r
}

// NewServer wraps the router in an http.Server configured from cfg.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

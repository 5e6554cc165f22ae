package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	JWTSecret         string // empty disables authentication
	CORSAllowedOrigin string
}

// NewRouter wires middleware, health, metrics and the onboarding routes.
func NewRouter(handler *OnboardingHandler, cfg RouterConfig, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(NewMetricsMiddleware("/metrics", "/health"))
	r.Use(CORSMiddleware(cfg.CORSAllowedOrigin))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(req.Context(), w, logger, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		if cfg.JWTSecret != "" {
			api.Use(JWTAuthMiddleware([]byte(cfg.JWTSecret), logger))
		} else {
			logger.Warn("API_JWT_SECRET not set; onboarding routes are unauthenticated")
		}
		handler.RegisterRoutes(api)
	})
	return r
}

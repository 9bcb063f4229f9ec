package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mmcdole/holocron/internal/metrics"
)

// NewRouter creates the chi router with health, metrics and API routes.
// m may be nil, in which case /metrics is not mounted.
func NewRouter(h *Handler, m *metrics.Metrics, logger *slog.Logger) chi.Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware(m))

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/films", h.ListFilms)
		r.Get("/films/{id}", h.GetFilm)
		r.Get("/films/{id}/related", h.GetRelated)
		r.Get("/stats", h.Stats)
		r.Get("/window", h.Window)
		r.Get("/suggest", h.Suggest)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	})
	return r
}

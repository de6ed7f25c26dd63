package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Roost/internal/atlas"
	"github.com/MikeSquared-Agency/Roost/internal/enrich"
	"github.com/MikeSquared-Agency/Roost/internal/herald"
	"github.com/MikeSquared-Agency/Roost/internal/observability"
	"github.com/MikeSquared-Agency/Roost/internal/scoring"
	"github.com/MikeSquared-Agency/Roost/internal/store"
)

func NewRouter(s store.Store, e *enrich.Enricher, cache *atlas.Cache, h herald.Client, profile scoring.Profile, m *observability.Metrics, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware(m))
	r.Use(RateLimitMiddleware(120))

	apartments := NewApartmentsHandler(s, h, m)
	score := NewScoreHandler(e)
	breakdown := NewBreakdownHandler(s, profile)
	compare := NewCompareHandler(s)
	admin := NewAdminHandler(s, cache)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		n, err := s.Count(req.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "running", "apartments_stored": n})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/score", score.FromURL)
		r.Post("/score/manual", score.Manual)

		r.Post("/apartments", apartments.Create)
		r.Get("/apartments", apartments.List)
		r.Post("/apartments/sort", apartments.Sort)
		r.Get("/apartments/{id}", apartments.Get)
		r.Patch("/apartments/{id}", apartments.Update)
		r.Delete("/apartments/{id}", apartments.Delete)
		r.Get("/apartments/{id}/breakdown", breakdown.Breakdown)

		r.Get("/compare", compare.Compare)
		r.Get("/profile", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, profile)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/admin/stats", admin.Stats)
			r.Delete("/admin/cache", admin.PurgeCache)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

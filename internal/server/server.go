// Package server exposes the dashboard HTTP API: login, dataset uploads,
// chart rendering, period comparison, and downloads. All state is
// per-session and in-memory.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/flowviz-labs/flowviz/internal/auth"
	"github.com/flowviz-labs/flowviz/internal/compare"
	"github.com/flowviz-labs/flowviz/internal/config"
	"github.com/flowviz-labs/flowviz/internal/profile"
	"github.com/flowviz-labs/flowviz/internal/recommend"
)

// Handler wires the analysis packages into HTTP endpoints.
type Handler struct {
	Auth     *auth.StaticStore
	Sessions *SessionStore

	maxUploadBytes int64
	profileOpt     profile.Options
	recommendOpt   recommend.Options
	compareOpt     compare.Options
}

// NewHandler builds the handler from configuration. The credential store
// is injected so the analysis path has no dependency on authentication.
func NewHandler(cfg *config.Global, store *auth.StaticStore) (*Handler, error) {
	agg, err := compare.ParseAggregation(cfg.Aggregation)
	if err != nil {
		return nil, err
	}
	pOpt := profile.Options{
		NumericThreshold:  cfg.NumericThreshold,
		DatetimeThreshold: cfg.DatetimeThreshold,
	}
	return &Handler{
		Auth:           store,
		Sessions:       NewSessionStore(time.Duration(cfg.SessionTTLMin) * time.Minute),
		maxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		profileOpt:     pOpt,
		recommendOpt: recommend.Options{
			MaxSeries:     cfg.MaxSeries,
			MaxHeatmap:    cfg.MaxHeatmapColumns,
			MaxHistograms: cfg.MaxHistograms,
			TopN:          cfg.TopN,
		},
		compareOpt: compare.Options{Aggregation: agg, Profile: pOpt},
	}, nil
}

// Router assembles the chi router with middleware and all routes.
func Router(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Post("/api/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Post("/api/logout", h.Logout)
		r.Post("/api/datasets/{slot}", h.UploadDataset)
		r.Get("/api/datasets/{slot}/stats", h.DatasetStats)
		r.Get("/api/recommendations", h.Recommendations)
		r.Get("/api/charts/{index}", h.RenderChart)
		r.Post("/api/charts/custom", h.CustomChart)
		r.Get("/api/compare", h.Compare)
		r.Get("/api/compare/charts/{column}", h.RenderComparisonChart)
		r.Get("/api/export/{slot}.csv", h.ExportTableCSV)
		r.Get("/api/export/{slot}.xlsx", h.ExportTableXLSX)
		r.Get("/api/export/summary.csv", h.ExportSummaryCSV)
		r.Get("/api/export/summary.xlsx", h.ExportSummaryXLSX)
	})
	return r
}

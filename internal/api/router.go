package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/oneselect/oneselect/internal/api/handlers"
	mw "github.com/oneselect/oneselect/internal/api/middleware"
	"github.com/oneselect/oneselect/internal/auth"
	"github.com/oneselect/oneselect/internal/buildconfig"
	"github.com/oneselect/oneselect/internal/config"
	"github.com/oneselect/oneselect/internal/domain"
	"github.com/oneselect/oneselect/internal/service"
	"github.com/oneselect/oneselect/internal/store"
)

// App holds the router and request metrics for lifecycle management.
type App struct {
	Router    *chi.Mux
	Users     *service.UserService
	startTime time.Time
	metrics   *mw.MetricsCollector
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	userStore := store.NewUserStore(db)
	projectStore := store.NewProjectStore(db)
	featureStore := store.NewFeatureStore(db)
	comparisonStore := store.NewComparisonStore(db)
	scoreStore := store.NewScoreStore(db)
	modelConfigStore := store.NewModelConfigStore(db)

	// Services
	userSvc := service.NewUserService(userStore, logger)
	projectSvc := service.NewProjectService(projectStore, logger)
	featureSvc := service.NewFeatureService(featureStore, logger)
	comparisonSvc := service.NewComparisonService(featureStore, comparisonStore, scoreStore, modelConfigStore, logger)
	resultsSvc := service.NewResultsService(featureStore, scoreStore, modelConfigStore, logger)
	statisticsSvc := service.NewStatisticsService(comparisonSvc, featureStore, comparisonStore, logger)
	modelConfigSvc := service.NewModelConfigService(modelConfigStore, comparisonSvc, logger)

	tokenSvc := auth.NewJWTServiceWithExpiry(config.JWTSecret(),
		time.Duration(config.AccessTokenExpireMinutes())*time.Minute)

	// Handlers
	authHandler := handlers.NewAuthHandler(userSvc, tokenSvc)
	projectHandler := handlers.NewProjectHandler(projectSvc, statisticsSvc)
	featureHandler := handlers.NewFeatureHandler(projectSvc, featureSvc)
	comparisonHandler := handlers.NewComparisonHandler(projectSvc, comparisonSvc)
	resultsHandler := handlers.NewResultsHandler(projectSvc, resultsSvc)
	modelConfigHandler := handlers.NewModelConfigHandler(projectSvc, modelConfigSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Users:     userSvc,
		startTime: time.Now(),
		metrics:   mw.NewMetricsCollector(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.metrics.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Unauthenticated surface
	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())
	r.Get("/version", versionHandler())
	r.Post("/v1/auth/register", authHandler.Register)
	r.Post("/v1/auth/login", authHandler.Login)

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.JWTAuth(tokenSvc, userSvc))

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projectHandler.Create)
			r.Get("/", projectHandler.List)

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", projectHandler.Get)
				r.Put("/", projectHandler.Update)
				r.Delete("/", projectHandler.Delete)
				r.Get("/summary", projectHandler.Summary)
				r.Get("/statistics", projectHandler.Summary)

				r.Route("/features", func(r chi.Router) {
					r.Post("/", featureHandler.Create)
					r.Post("/bulk", featureHandler.CreateBatch)
					r.Post("/bulk-delete", featureHandler.DeleteBatch)
					r.Get("/", featureHandler.List)
					r.Route("/{featureID}", func(r chi.Router) {
						r.Get("/", featureHandler.Get)
						r.Put("/", featureHandler.Update)
						r.Delete("/", featureHandler.Delete)
					})
				})

				r.Route("/comparisons", func(r chi.Router) {
					r.Get("/next", comparisonHandler.NextPair)
					r.Post("/", comparisonHandler.Submit)
					r.Get("/", comparisonHandler.List)
					r.Get("/progress", comparisonHandler.Progress)
					r.Get("/estimates", comparisonHandler.Estimates)
					r.Get("/inconsistencies", comparisonHandler.Inconsistencies)
					r.Get("/inconsistency-stats", comparisonHandler.InconsistencyStats)
					r.Get("/resolve-inconsistency", comparisonHandler.ResolveInconsistency)
					r.Post("/reset", comparisonHandler.Reset)
					r.Post("/undo", comparisonHandler.Undo)
					r.Post("/skip", comparisonHandler.Skip)
					r.Get("/{comparisonID}", comparisonHandler.Get)
					r.Delete("/{comparisonID}", comparisonHandler.Delete)
				})

				r.Route("/results", func(r chi.Router) {
					r.Get("/", resultsHandler.Ranking)
					r.Get("/quadrants", resultsHandler.Quadrants)
					r.Get("/export", resultsHandler.Export)
				})

				r.Route("/model-config", func(r chi.Router) {
					r.Get("/", modelConfigHandler.Get)
					r.Put("/", modelConfigHandler.Update)
					r.Post("/preview", modelConfigHandler.Preview)
				})
			})
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for backward compatibility.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func versionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(buildconfig.VersionInfo())
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.metrics.Requests(),
			"error_count":    app.metrics.Errors(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.UserStore        = (*store.UserStore)(nil)
	_ domain.ProjectStore     = (*store.ProjectStore)(nil)
	_ domain.FeatureStore     = (*store.FeatureStore)(nil)
	_ domain.ComparisonStore  = (*store.ComparisonStore)(nil)
	_ domain.ScoreStore       = (*store.ScoreStore)(nil)
	_ domain.ModelConfigStore = (*store.ModelConfigStore)(nil)
)

package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/RezenkovD/TravelAiApi/docs"
	"github.com/RezenkovD/TravelAiApi/internal/api"
	"github.com/RezenkovD/TravelAiApi/internal/api/recommendation"
)

// Config contains dependencies needed for the router setup
type Config struct {
	RecommendationHandler *recommendation.HandlerImpl
	AllowedOrigins        []string
	// RateLimitRequests per RateLimitWindow per client IP on the generation
	// routes. Zero disables the limit.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// SetupRouter builds the API router. Request id, logging and recovery
// middleware are applied by the caller.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	h := cfg.RecommendationHandler
	r.Group(func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(httprate.Limit(
				cfg.RateLimitRequests,
				cfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByRealIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					api.ErrorResponse(w, r, http.StatusTooManyRequests, "Too many requests")
				}),
			))
		}
		r.Post("/recommendations", h.CreateRecommendation)
		r.Post("/recommendations/{id}/exclude", h.RefineRecommendation)
	})
	r.Get("/history", h.GetHistory)

	return r
}

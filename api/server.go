// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation, CORS, request logging, rate limiting and metrics

package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"conversion-roast-api/api/middleware"
	"conversion-roast-api/core/interfaces"
	"conversion-roast-api/pkg/metrics"
)

const (
	apiTitle       = "Conversion ROAST API"
	apiVersion     = "1.0.0"
	apiDescription = "Critiques landing page screenshots for conversion rate optimization and scores them"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger         interfaces.Logger
	AllowedOrigins []string

	// RateLimiter is applied per client IP when set
	RateLimiter *middleware.RateLimiter

	// Metrics instruments requests and serves /metrics
	Metrics bool
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, o := range origins {
		if o == "*" {
			allowCredentials = false
		}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Client-Info", "Apikey", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: allowCredentials,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}
}

func humaConfig() huma.Config {
	config := huma.DefaultConfig(apiTitle, apiVersion)
	config.Info.Description = apiDescription
	return config
}

// NewAPI creates and configures a new Huma API instance
func NewAPI() (huma.API, chi.Router) {
	router := chi.NewRouter()
	router.Use(cors.Handler(corsOptions(nil)))

	// The OpenAPI spec is automatically available at /openapi.json
	// The Swagger UI is automatically available at /docs
	api := humachi.New(router, humaConfig())

	return api, router
}

// NewAPIWithMiddleware creates a new API with middleware configured
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	// CORS should be first so preflight requests are never rate limited
	router.Use(cors.Handler(corsOptions(cfg.AllowedOrigins)))

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.Metrics {
		metrics.Register()
		router.Use(middleware.MetricsMiddleware)
	}

	if cfg.RateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(cfg.RateLimiter))
	}

	// chi requires every middleware to be added before the first route
	if cfg.Metrics {
		router.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	api := humachi.New(router, humaConfig())

	return api, router
}

// Package api provides the HTTP API layer of the Conversion ROAST service.
// It uses Huma on a chi router for OpenAPI documentation and request validation.
//
// # Architecture
//
// - server.go: Huma API configuration and middleware chain
// - handlers/: roast, media and health handlers
// - dto/: request and response bodies and their mappers
// - middleware/: request logging, per-IP rate limiting and Prometheus metrics
//
// The OpenAPI document is served at /openapi.json and the interactive docs at /docs.
//
// # Usage Example
//
//	limiter := middleware.NewRateLimiter(2, 10)
//	defer limiter.Stop()
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:      logger,
//	    RateLimiter: limiter,
//	    Metrics:     true,
//	})
//	handlers.NewRoastHandler(roastService, logger).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format:
//
//	{
//	    "status": 503,
//	    "title": "Service Unavailable",
//	    "detail": "External service error"
//	}
//
// Domain errors are mapped to status codes in handlers/errors.go. Upstream
// details are logged with the request id and never returned to the client.
package api

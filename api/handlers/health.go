package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"conversion-roast-api/api/dto/responses"
	"conversion-roast-api/pkg/featureflags"
)

// HealthInfo describes the configured backends
type HealthInfo struct {
	Cache   string
	Storage string
	Model   string
}

// HealthHandler serves GET /health
type HealthHandler struct {
	info  HealthInfo
	flags featureflags.Manager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(info HealthInfo, flags featureflags.Manager) *HealthHandler {
	if flags == nil {
		flags = featureflags.NewDefaultManager()
	}
	return &HealthHandler{info: info, flags: flags}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Liveness check",
		Tags:        []string{"Health"},
	}, h.Health)
}

// HealthOutput wraps the health report
type HealthOutput struct {
	Body responses.HealthResponse
}

// Health handles GET /health
func (h *HealthHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	features := make(map[string]bool)
	for flag, enabled := range h.flags.GetAllFlags() {
		features[string(flag)] = enabled
	}
	return &HealthOutput{Body: responses.HealthResponse{
		Status:    "ok",
		Cache:     h.info.Cache,
		Storage:   h.info.Storage,
		Model:     h.info.Model,
		Features:  features,
		Timestamp: time.Now().UTC(),
	}}, nil
}

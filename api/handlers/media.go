// ABOUTME: Screenshot, heatmap and page metadata handlers for the Huma API
// ABOUTME: Thin wrappers over the pipeline's supporting services

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"conversion-roast-api/api/dto/mappers"
	"conversion-roast-api/api/dto/requests"
	"conversion-roast-api/api/dto/responses"
	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
	"conversion-roast-api/pkg/featureflags"
)

// MediaHandler serves the screenshot, heatmap and metadata endpoints
type MediaHandler struct {
	screenshots interfaces.ScreenshotResolver
	heatmaps    interfaces.HeatmapGenerator
	metadata    interfaces.MetadataService
	flags       featureflags.Manager
	logger      interfaces.Logger
}

// NewMediaHandler creates a new media handler. Nil services leave their routes unregistered.
func NewMediaHandler(screenshots interfaces.ScreenshotResolver, heatmaps interfaces.HeatmapGenerator, metadata interfaces.MetadataService, flags featureflags.Manager, logger interfaces.Logger) *MediaHandler {
	if flags == nil {
		flags = featureflags.NewDefaultManager()
	}
	return &MediaHandler{
		screenshots: screenshots,
		heatmaps:    heatmaps,
		metadata:    metadata,
		flags:       flags,
		logger:      logger,
	}
}

// RegisterRoutes registers the media routes
func (h *MediaHandler) RegisterRoutes(api huma.API) {
	if h.screenshots != nil {
		huma.Register(api, huma.Operation{
			OperationID: "generateScreenshot",
			Method:      http.MethodPost,
			Path:        "/generate-screenshot",
			Summary:     "Capture a landing page",
			Description: "Captures a screenshot of the page through the screenshot service",
			Tags:        []string{"Media"},
		}, h.GenerateScreenshot)

		huma.Register(api, huma.Operation{
			OperationID: "getScreenshot",
			Method:      http.MethodGet,
			Path:        "/screenshots/{id}",
			Summary:     "Download a captured screenshot",
			Description: "Serves the PNG of a capture while it is cached",
			Tags:        []string{"Media"},
		}, h.GetScreenshot)
	}

	if h.heatmaps != nil {
		huma.Register(api, huma.Operation{
			OperationID: "generateHeatmap",
			Method:      http.MethodPost,
			Path:        "/generate-heatmap",
			Summary:     "Predict an attention heatmap",
			Description: "Runs a segmentation model on the screenshot and returns the heatmap image",
			Tags:        []string{"Media"},
		}, h.GenerateHeatmap)
	}

	if h.metadata != nil {
		huma.Register(api, huma.Operation{
			OperationID: "pageMetadata",
			Method:      http.MethodPost,
			Path:        "/page-metadata",
			Summary:     "Read landing page metadata",
			Description: "Extracts the title, description, preview image and theme color of a page",
			Tags:        []string{"Media"},
		}, h.PageMetadata)
	}
}

// ScreenshotInput defines the input for the GenerateScreenshot operation
type ScreenshotInput struct {
	Body requests.ScreenshotRequest
}

// ScreenshotOutput wraps a captured screenshot
type ScreenshotOutput struct {
	Body responses.ScreenshotResponse
}

// GenerateScreenshot handles POST /generate-screenshot
func (h *MediaHandler) GenerateScreenshot(ctx context.Context, input *ScreenshotInput) (*ScreenshotOutput, error) {
	if !domain.IsHTTPURL(input.Body.URL) {
		return nil, toHumaError(&errors.ValidationError{Field: "url", Message: "url must start with http:// or https://"})
	}

	shot, err := h.screenshots.Resolve(ctx, input.Body.URL)
	if err != nil {
		return nil, failure(h.logger, "generateScreenshot", err, withField(requestFields(ctx), "url", input.Body.URL))
	}
	return &ScreenshotOutput{Body: *mappers.ToScreenshotResponse(shot)}, nil
}

// GetScreenshotInput names a capture by the id in its screenshot URL
type GetScreenshotInput struct {
	ID string `path:"id" pattern:"^[0-9a-f]{32}$" doc:"Screenshot id"`
}

// GetScreenshotOutput carries the raw image
type GetScreenshotOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// GetScreenshot handles GET /screenshots/{id}
func (h *MediaHandler) GetScreenshot(ctx context.Context, input *GetScreenshotInput) (*GetScreenshotOutput, error) {
	data, err := h.screenshots.Image(ctx, input.ID)
	if err != nil {
		return nil, failure(h.logger, "getScreenshot", err, withField(requestFields(ctx), "id", input.ID))
	}
	return &GetScreenshotOutput{
		ContentType:  http.DetectContentType(data),
		CacheControl: "private, max-age=3600",
		Body:         data,
	}, nil
}

// HeatmapInput defines the input for the GenerateHeatmap operation
type HeatmapInput struct {
	Body requests.HeatmapRequest
}

// HeatmapOutput wraps a heatmap prediction
type HeatmapOutput struct {
	Body responses.HeatmapResponse
}

// GenerateHeatmap handles POST /generate-heatmap
func (h *MediaHandler) GenerateHeatmap(ctx context.Context, input *HeatmapInput) (*HeatmapOutput, error) {
	if !h.flags.IsEnabled(ctx, featureflags.HeatmapEnabled) {
		return nil, huma.Error404NotFound("Heatmaps are disabled")
	}

	heatmap, err := h.heatmaps.Generate(ctx, input.Body.ImageURL)
	if err != nil {
		return nil, failure(h.logger, "generateHeatmap", err, withField(requestFields(ctx), "image_url", input.Body.ImageURL))
	}
	return &HeatmapOutput{Body: *mappers.ToHeatmapResponse(heatmap)}, nil
}

// PageMetadataInput defines the input for the PageMetadata operation
type PageMetadataInput struct {
	Body requests.PageMetadataRequest
}

// PageMetadataOutput wraps page metadata
type PageMetadataOutput struct {
	Body responses.PageMetadataResponse
}

// PageMetadata handles POST /page-metadata
func (h *MediaHandler) PageMetadata(ctx context.Context, input *PageMetadataInput) (*PageMetadataOutput, error) {
	if !h.flags.IsEnabled(ctx, featureflags.PageMetadata) {
		return nil, huma.Error404NotFound("Page metadata is disabled")
	}
	if !domain.IsHTTPURL(input.Body.URL) {
		return nil, toHumaError(&errors.ValidationError{Field: "url", Message: "url must start with http:// or https://"})
	}

	meta, err := h.metadata.ExtractMetadata(ctx, input.Body.URL)
	if err != nil {
		return nil, failure(h.logger, "pageMetadata", err, withField(requestFields(ctx), "url", input.Body.URL))
	}
	return &PageMetadataOutput{Body: *mappers.ToPageMetadataResponse(meta)}, nil
}

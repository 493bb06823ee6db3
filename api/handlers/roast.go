// ABOUTME: Roast handlers for the Huma API
// ABOUTME: Create, read and list roast records and run the critique pipeline for them

package handlers

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"conversion-roast-api/api/dto/mappers"
	"conversion-roast-api/api/dto/requests"
	"conversion-roast-api/api/dto/responses"
	"conversion-roast-api/api/middleware"
	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/interfaces"
)

// RoastService interface defines the methods needed from the roast service
type RoastService interface {
	Create(ctx context.Context, sub domain.Submission) (*domain.Roast, error)
	Get(ctx context.Context, id string) (*domain.Roast, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Roast, error)
	Generate(ctx context.Context, id string) (*domain.RoastResult, error)
	Run(ctx context.Context, sub domain.Submission) (*domain.RoastResult, error)
}

// RoastHandler handles roast-related HTTP requests
type RoastHandler struct {
	roastService RoastService
	logger       interfaces.Logger
}

// NewRoastHandler creates a new roast handler
func NewRoastHandler(roastService RoastService, logger interfaces.Logger) *RoastHandler {
	return &RoastHandler{
		roastService: roastService,
		logger:       logger,
	}
}

// MaxUploadBodyBytes fits the largest screenshot as base64 plus the other request fields
var MaxUploadBodyBytes = int64(base64.StdEncoding.EncodedLen(domain.MaxImageSize) + 64<<10)

// RegisterRoutes registers all roast-related routes
func (h *RoastHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "createRoast",
		Method:        http.MethodPost,
		Path:          "/roasts",
		Summary:       "Create a roast",
		Description:   "Stores a landing page submission. Send a screenshot URL, a base64 upload or a page URL to capture later.",
		Tags:          []string{"Roasts"},
		DefaultStatus: http.StatusCreated,
		MaxBodyBytes:  MaxUploadBodyBytes,
	}, h.CreateRoast)

	huma.Register(api, huma.Operation{
		OperationID: "getRoast",
		Method:      http.MethodGet,
		Path:        "/roasts/{id}",
		Summary:     "Get a roast",
		Tags:        []string{"Roasts"},
	}, h.GetRoast)

	huma.Register(api, huma.Operation{
		OperationID: "listUserRoasts",
		Method:      http.MethodGet,
		Path:        "/users/{userId}/roasts",
		Summary:     "List a user's roasts",
		Description: "Returns the user's roasts, newest first",
		Tags:        []string{"Roasts"},
	}, h.ListUserRoasts)

	huma.Register(api, huma.Operation{
		OperationID: "generateStoredRoast",
		Method:      http.MethodPost,
		Path:        "/roasts/{id}/generate",
		Summary:     "Generate the critique for a stored roast",
		Description: "Captures the page when the roast has no screenshot yet, then asks the vision model for a CRO critique",
		Tags:        []string{"Roasts"},
	}, h.GenerateStoredRoast)

	huma.Register(api, huma.Operation{
		OperationID:  "generateRoast",
		Method:       http.MethodPost,
		Path:         "/generate-roast",
		Summary:      "Generate a critique",
		Description:  "Runs the critique pipeline for a screenshot or page URL without storing anything",
		Tags:         []string{"Roasts"},
		MaxBodyBytes: MaxUploadBodyBytes,
	}, h.GenerateRoast)
}

// CreateRoastInput defines the input for the CreateRoast operation
type CreateRoastInput struct {
	Body requests.CreateRoastRequest
}

// RoastOutput wraps a stored roast
type RoastOutput struct {
	Body responses.RoastResponse
}

// CreateRoast handles POST /roasts
func (h *RoastHandler) CreateRoast(ctx context.Context, input *CreateRoastInput) (*RoastOutput, error) {
	roast, err := h.roastService.Create(ctx, input.Body.ToSubmission())
	if err != nil {
		return nil, failure(h.logger, "createRoast", err, requestFields(ctx))
	}
	return &RoastOutput{Body: *mappers.ToRoastResponse(roast)}, nil
}

// RoastIDInput identifies a roast in the path
type RoastIDInput struct {
	ID string `path:"id" minLength:"1" maxLength:"64" doc:"Roast identifier"`
}

// GetRoast handles GET /roasts/{id}
func (h *RoastHandler) GetRoast(ctx context.Context, input *RoastIDInput) (*RoastOutput, error) {
	roast, err := h.roastService.Get(ctx, input.ID)
	if err != nil {
		return nil, failure(h.logger, "getRoast", err, withField(requestFields(ctx), "roast_id", input.ID))
	}
	return &RoastOutput{Body: *mappers.ToRoastResponse(roast)}, nil
}

// ListUserRoastsInput defines the input for the ListUserRoasts operation
type ListUserRoastsInput struct {
	UserID string `path:"userId" minLength:"1" maxLength:"128" doc:"User identifier"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" default:"50" doc:"Maximum number of roasts"`
}

// RoastListOutput wraps a list of roasts
type RoastListOutput struct {
	Body responses.RoastListResponse
}

// ListUserRoasts handles GET /users/{userId}/roasts
func (h *RoastHandler) ListUserRoasts(ctx context.Context, input *ListUserRoastsInput) (*RoastListOutput, error) {
	roasts, err := h.roastService.ListByUser(ctx, input.UserID, input.Limit)
	if err != nil {
		return nil, failure(h.logger, "listUserRoasts", err, withField(requestFields(ctx), "user_id", input.UserID))
	}
	return &RoastListOutput{Body: *mappers.ToRoastListResponse(roasts)}, nil
}

// RoastResultOutput wraps a generated critique
type RoastResultOutput struct {
	Body responses.RoastResultResponse
}

// GenerateStoredRoast handles POST /roasts/{id}/generate
func (h *RoastHandler) GenerateStoredRoast(ctx context.Context, input *RoastIDInput) (*RoastResultOutput, error) {
	result, err := h.roastService.Generate(ctx, input.ID)
	if err != nil {
		return nil, failure(h.logger, "generateStoredRoast", err, withField(requestFields(ctx), "roast_id", input.ID))
	}
	return &RoastResultOutput{Body: *mappers.ToRoastResultResponse(input.ID, result)}, nil
}

// GenerateRoastInput defines the input for the GenerateRoast operation
type GenerateRoastInput struct {
	Body requests.GenerateRoastRequest
}

// GenerateRoast handles POST /generate-roast
func (h *RoastHandler) GenerateRoast(ctx context.Context, input *GenerateRoastInput) (*RoastResultOutput, error) {
	result, err := h.roastService.Run(ctx, input.Body.ToSubmission())
	if err != nil {
		return nil, failure(h.logger, "generateRoast", err, requestFields(ctx))
	}
	return &RoastResultOutput{Body: *mappers.ToRoastResultResponse("", result)}, nil
}

func requestFields(ctx context.Context) map[string]interface{} {
	fields := map[string]interface{}{}
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
	}
	return fields
}

func withField(fields map[string]interface{}, key string, value interface{}) map[string]interface{} {
	fields[key] = value
	return fields
}

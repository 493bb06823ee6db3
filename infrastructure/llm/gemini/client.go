// ABOUTME: Gemini vision model client on google.golang.org/genai
// ABOUTME: Sends the screenshot as an inline part and requests a JSON reply

package gemini

import (
	"context"
	stderrors "errors"
	"net/http"

	"google.golang.org/genai"

	"conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
)

const (
	DefaultModel = "gemini-2.5-flash"

	apiName = "gemini"
)

// Config holds the client settings
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API endpoint
	BaseURL string
}

// Client implements interfaces.ModelClient
type Client struct {
	client *genai.Client
	model  string
}

var _ interfaces.ModelClient = (*Client)(nil)

// NewClient creates a Gemini API client
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &errors.MissingCredentialError{Credential: "GEMINI_API_KEY"}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, errors.WrapError(err, "failed to create Gemini client")
	}

	return &Client{client: client, model: cfg.Model}, nil
}

// Name returns the model id
func (c *Client) Name() string {
	return c.model
}

// Complete sends the prompt and image and returns the reply text
func (c *Client) Complete(ctx context.Context, req interfaces.VisionRequest) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(req.UserPrompt),
			genai.NewPartFromBytes(req.Image, req.MIMEType),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", toError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.ErrEmptyResponse
	}
	return resp.Text(), nil
}

func toError(err error) error {
	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		return &errors.ExternalAPIError{
			API:        apiName,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
		}
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &errors.ExternalAPIError{API: apiName, StatusCode: http.StatusBadGateway, Message: err.Error()}
}

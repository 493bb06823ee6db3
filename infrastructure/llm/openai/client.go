// ABOUTME: OpenAI vision model client on the official openai-go SDK
// ABOUTME: Sends the screenshot inline as a data URL and asks for a JSON object reply

package openai

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
)

const (
	// DefaultModel is the vision model the critique prompt was tuned on
	DefaultModel = "gpt-4o"

	apiName = "openai"
)

// Config holds the client settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	// Timeout bounds one completion call, zero leaves it to the caller's context
	Timeout time.Duration
}

// Client implements interfaces.ModelClient
type Client struct {
	client openai.Client
	model  string
}

var _ interfaces.ModelClient = (*Client)(nil)

// NewClient creates a client. SDK retries are disabled, the roast pipeline owns retries.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &errors.MissingCredentialError{Credential: "OPENAI_API_KEY"}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Name returns the model id
func (c *Client) Name() string {
	return c.model
}

// Complete sends the prompt and image, returning the first choice's text
func (c *Client) Complete(ctx context.Context, req interfaces.VisionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(req.UserPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL:    domain.DataURL(req.Image, req.MIMEType),
					Detail: "high",
				}),
			}),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", toError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// toError maps SDK errors onto the core taxonomy. Context errors pass through
// so the pipeline can tell a stage deadline from an upstream failure.
func toError(err error) error {
	var apiErr *openai.Error
	if stderrors.As(err, &apiErr) {
		return &errors.ExternalAPIError{
			API:        apiName,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
		}
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &errors.ExternalAPIError{API: apiName, StatusCode: http.StatusBadGateway, Message: err.Error()}
}

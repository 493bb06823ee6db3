// ABOUTME: Vision model client interface used by the feedback generator
// ABOUTME: Implementations wrap a provider SDK and return the raw reply text

package interfaces

import "context"

// VisionRequest is one multimodal completion call
type VisionRequest struct {
	SystemPrompt string
	UserPrompt   string

	// Image is sent inline, MIMEType describes it
	Image    []byte
	MIMEType string

	MaxTokens int
}

// ModelClient sends a screenshot and prompt to a vision model
type ModelClient interface {
	// Complete returns the text of the first choice.
	// Errors are ExternalAPIError for non-success replies and
	// ErrEmptyResponse when no choice came back.
	Complete(ctx context.Context, req VisionRequest) (string, error)

	// Name identifies the model in RoastResult.Source
	Name() string
}

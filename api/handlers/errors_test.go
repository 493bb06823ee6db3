package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conversion-roast-api/core/errors"
)

func TestToHumaError(t *testing.T) {
	tests := []struct {
		name           string
		input          error
		expectedStatus int
		expectedDetail string
	}{
		{
			name:           "NotFoundError returns 404",
			input:          &errors.NotFoundError{Resource: "roast", ID: "r1"},
			expectedStatus: 404,
			expectedDetail: "roast not found",
		},
		{
			name:           "ValidationError returns 400 with its message",
			input:          &errors.ValidationError{Field: "url", Message: "page URL must start with http:// or https://"},
			expectedStatus: 400,
			expectedDetail: "page URL must start with http:// or https://",
		},
		{
			name:           "ConflictError returns 409",
			input:          &errors.ConflictError{Resource: "roast", ID: "r1", Reason: "generation already in progress"},
			expectedStatus: 409,
			expectedDetail: "generation already in progress",
		},
		{
			name:           "MissingCredentialError hides the credential name",
			input:          &errors.MissingCredentialError{Credential: "OPENAI_API_KEY"},
			expectedStatus: 500,
			expectedDetail: "Service is not configured",
		},
		{
			name:           "ExternalAPIError with 500 returns 503",
			input:          &errors.ExternalAPIError{API: "openai", StatusCode: 500, Message: "server error"},
			expectedStatus: 503,
			expectedDetail: "External service error",
		},
		{
			name:           "ExternalAPIError with 429 returns 429",
			input:          &errors.ExternalAPIError{API: "openai", StatusCode: 429, Message: "rate limited"},
			expectedStatus: 429,
			expectedDetail: "Rate limited by external service",
		},
		{
			name:           "ExternalAPIError with 504 returns 504",
			input:          &errors.ExternalAPIError{API: "openai", StatusCode: 504, Message: "deadline"},
			expectedStatus: 504,
			expectedDetail: "External service timed out",
		},
		{
			name:           "ExternalAPIError with 400 returns 502",
			input:          &errors.ExternalAPIError{API: "openai", StatusCode: 400, Message: "bad request"},
			expectedStatus: 502,
			expectedDetail: "Unexpected external service response",
		},
		{
			name:           "FetchError returns 502",
			input:          &errors.FetchError{URL: "https://example.com", StatusCode: 404},
			expectedStatus: 502,
			expectedDetail: "Could not fetch the page or image",
		},
		{
			name:           "malformed output returns 502",
			input:          errors.ErrMalformedOutput,
			expectedStatus: 502,
			expectedDetail: "Model returned an unusable critique",
		},
		{
			name:           "empty response returns 502",
			input:          fmt.Errorf("generate: %w", errors.ErrEmptyResponse),
			expectedStatus: 502,
			expectedDetail: "Model returned an unusable critique",
		},
		{
			name:           "TimeoutError returns 504",
			input:          &errors.TimeoutError{Operation: "heatmap prediction", Attempts: 30},
			expectedStatus: 504,
			expectedDetail: "Operation timed out",
		},
		{
			name:           "context deadline returns 504",
			input:          context.DeadlineExceeded,
			expectedStatus: 504,
			expectedDetail: "Operation timed out",
		},
		{
			name:           "wrapped NotFoundError returns 404",
			input:          fmt.Errorf("wrapped: %w", &errors.NotFoundError{Resource: "roast"}),
			expectedStatus: 404,
			expectedDetail: "roast not found",
		},
		{
			name:           "unknown error returns 500",
			input:          fmt.Errorf("some unknown error"),
			expectedStatus: 500,
			expectedDetail: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := toHumaError(tt.input)

			humaErr, ok := result.(*huma.ErrorModel)
			require.True(t, ok, "Expected huma.ErrorModel")
			assert.Equal(t, tt.expectedStatus, humaErr.Status)
			assert.Equal(t, tt.expectedDetail, humaErr.Detail)
			assert.Empty(t, humaErr.Errors, "upstream details must not be echoed")
		})
	}
}

func TestToHumaError_Nil(t *testing.T) {
	assert.Nil(t, toHumaError(nil))
}

func TestFailure_LogsDetails(t *testing.T) {
	logger := &mockLogger{}

	err := failure(logger, "generateRoast", &errors.ExternalAPIError{API: "openai", StatusCode: 500, Message: "boom"}, nil)

	humaErr := err.(*huma.ErrorModel)
	assert.Equal(t, 503, humaErr.Status)
	require.Len(t, logger.entries, 1)
	assert.Equal(t, "ERROR", logger.entries[0].level)
	assert.Equal(t, "generateRoast", logger.entries[0].fields["operation"])
	assert.Contains(t, logger.entries[0].fields["error"], "boom")
}

func TestFailure_ClientErrorsAreInfo(t *testing.T) {
	logger := &mockLogger{}

	failure(logger, "getRoast", &errors.NotFoundError{Resource: "roast", ID: "x"}, map[string]interface{}{"roast_id": "x"})

	require.Len(t, logger.entries, 1)
	assert.Equal(t, "INFO", logger.entries[0].level)
	assert.Equal(t, "x", logger.entries[0].fields["roast_id"])
}

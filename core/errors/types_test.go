package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError_Error(t *testing.T) {
	err := &NotFoundError{
		Resource: "roast",
		ID:       "123",
	}

	expected := "roast not found: 123"
	if err.Error() != expected {
		t.Errorf("NotFoundError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "url",
		Message: "URL must start with http:// or https://",
	}

	expected := "validation error on field 'url': URL must start with http:// or https://"
	if err.Error() != expected {
		t.Errorf("ValidationError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestExternalAPIError_Error(t *testing.T) {
	err := &ExternalAPIError{
		StatusCode: 503,
		Message:    "service unavailable",
		API:        "screenshotmachine",
	}

	expected := "external API error from screenshotmachine: 503 - service unavailable"
	if err.Error() != expected {
		t.Errorf("ExternalAPIError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestFetchError_Error(t *testing.T) {
	withStatus := &FetchError{URL: "https://cdn.example.com/a.png", StatusCode: 404}
	if withStatus.Error() != "fetch https://cdn.example.com/a.png: status 404" {
		t.Errorf("FetchError.Error() = %v", withStatus.Error())
	}

	cause := errors.New("connection refused")
	withCause := &FetchError{URL: "https://cdn.example.com/a.png", Err: cause}
	if withCause.Error() != "fetch https://cdn.example.com/a.png: connection refused" {
		t.Errorf("FetchError.Error() = %v", withCause.Error())
	}
	if !errors.Is(withCause, cause) {
		t.Error("FetchError should unwrap to its cause")
	}
}

func TestIsNotFound_WrappedError(t *testing.T) {
	notFound := &NotFoundError{
		Resource: "roast",
		ID:       "123",
	}
	wrapped := fmt.Errorf("failed to get roast: %w", notFound)

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should return true for wrapped NotFoundError")
	}
	if IsNotFound(errors.New("some other error")) {
		t.Error("IsNotFound should return false for non-NotFoundError")
	}
}

func TestTypeHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", &ValidationError{Field: "url"}, IsValidation},
		{"external", &ExternalAPIError{API: "openai"}, IsExternalAPI},
		{"fetch", &FetchError{URL: "x"}, IsFetch},
		{"credential", &MissingCredentialError{Credential: "OPENAI_API_KEY"}, IsMissingCredential},
		{"conflict", &ConflictError{Resource: "roast", ID: "1"}, IsConflict},
		{"timeout", &TimeoutError{Operation: "heatmap", Attempts: 30}, IsTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("helper should match %T", tt.err)
			}
			if !tt.check(WrapError(tt.err, "context")) {
				t.Errorf("helper should match wrapped %T", tt.err)
			}
			if tt.check(errors.New("plain")) {
				t.Error("helper should not match a plain error")
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"fetch", &FetchError{URL: "x", StatusCode: 500}, true},
		{"upstream", &ExternalAPIError{StatusCode: 503}, true},
		{"wrapped upstream", WrapError(&ExternalAPIError{StatusCode: 429}, "call model"), true},
		{"missing credential", &MissingCredentialError{Credential: "KEY"}, false},
		{"validation", &ValidationError{Field: "url"}, false},
		{"malformed", ErrMalformedOutput, false},
		{"oversized image", WrapError(&FetchError{URL: "x", Err: ErrImageTooLarge}, "load image"), false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOutputError(t *testing.T) {
	for _, err := range []error{ErrMalformedOutput, ErrNoFeedbackFound, ErrEmptyFeedback} {
		if !IsOutputError(WrapError(err, "normalize")) {
			t.Errorf("IsOutputError(%v) = false, want true", err)
		}
	}
	if IsOutputError(ErrEmptyResponse) {
		t.Error("empty response is an upstream problem, not an output error")
	}
}

func TestWrapError_PreservesOriginalError(t *testing.T) {
	originalErr := &NotFoundError{Resource: "roast", ID: "abc"}
	wrappedErr := WrapError(originalErr, "failed to load roast")

	if wrappedErr == nil {
		t.Fatal("WrapError should not return nil for non-nil error")
	}

	expectedMsg := "failed to load roast: roast not found: abc"
	if wrappedErr.Error() != expectedMsg {
		t.Errorf("WrapError message = %v, want %v", wrappedErr.Error(), expectedMsg)
	}
}

func TestWrapError_HandlesNilError(t *testing.T) {
	if WrapError(nil, "this should not happen") != nil {
		t.Error("WrapError should return nil when wrapping nil error")
	}
}

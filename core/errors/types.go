// ABOUTME: Custom error types for the roast pipeline and API
// ABOUTME: Classifies failures so the pipeline can decide on retry, fallback or HTTP status

package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for model output that cannot become a comment list
var (
	ErrMalformedOutput = errors.New("model output is not valid JSON")
	ErrNoFeedbackFound = errors.New("no feedback array found in model output")
	ErrEmptyFeedback   = errors.New("model output contains no feedback items")
	ErrEmptyResponse   = errors.New("model returned no choices")
)

// ErrImageTooLarge is wrapped in a FetchError when a download exceeds the image size limit
var ErrImageTooLarge = errors.New("image exceeds the size limit")

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents a non-success reply from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// FetchError is a transport failure or non-success status while downloading a resource
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// MissingCredentialError is returned when an outbound API key is not configured
type MissingCredentialError struct {
	Credential string
}

// Error implements the error interface
func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: %s", e.Credential)
}

// ConflictError means the resource is busy or the change was already applied
type ConflictError struct {
	Resource string
	ID       string
	Reason   string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s conflict: %s", e.Resource, e.ID, e.Reason)
}

// TimeoutError means a polled operation did not finish in time
type TimeoutError struct {
	Operation string
	Attempts  int
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not complete after %d attempts", e.Operation, e.Attempts)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsFetch checks if an error is a FetchError
func IsFetch(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsMissingCredential checks if an error is a MissingCredentialError
func IsMissingCredential(err error) bool {
	var credErr *MissingCredentialError
	return errors.As(err, &credErr)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
}

// IsTimeout checks if an error is a TimeoutError
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsRetryable reports whether another attempt may succeed
func IsRetryable(err error) bool {
	if errors.Is(err, ErrImageTooLarge) {
		return false
	}
	return IsFetch(err) || IsExternalAPI(err)
}

// IsOutputError reports whether the model replied but its output was unusable
func IsOutputError(err error) bool {
	return errors.Is(err, ErrMalformedOutput) ||
		errors.Is(err, ErrNoFeedbackFound) ||
		errors.Is(err, ErrEmptyFeedback)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

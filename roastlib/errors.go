// ABOUTME: Error types and handling for the roast library
// ABOUTME: Library errors carry a type and context, pipeline errors are classified alongside them

package roastlib

import (
	"errors"
	"fmt"

	coreerrors "conversion-roast-api/core/errors"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeConfiguration indicates a configuration error
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Error represents a structured error from the library
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error with the given type and message
func NewError(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// WithCause adds a cause to the error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ErrNoStorage is returned when stored roast operations are attempted without storage
var ErrNoStorage = NewError(ErrorTypeConfiguration, "no roast storage configured")

func hasType(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}

// IsValidationError reports a rejected input
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation) || coreerrors.IsValidation(err)
}

// IsNotFoundError reports a missing roast
func IsNotFoundError(err error) bool {
	return hasType(err, ErrorTypeNotFound) || coreerrors.IsNotFound(err)
}

// IsConfigurationError reports a client that cannot serve the call as configured
func IsConfigurationError(err error) bool {
	return hasType(err, ErrorTypeConfiguration) || coreerrors.IsMissingCredential(err)
}

// IsUpstreamError reports a failure of the model, capture or prediction service
func IsUpstreamError(err error) bool {
	return coreerrors.IsExternalAPI(err) || coreerrors.IsFetch(err) || coreerrors.IsTimeout(err)
}

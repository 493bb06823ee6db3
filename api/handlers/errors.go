// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to HTTP problem responses without echoing upstream details

package handlers

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors.
// Validation messages are user input problems and are returned as is,
// everything else gets a generic message.
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *errors.ValidationError
	if stderrors.As(err, &validationErr) {
		return huma.Error400BadRequest(validationErr.Message)
	}

	var notFoundErr *errors.NotFoundError
	if stderrors.As(err, &notFoundErr) {
		return huma.Error404NotFound(notFoundErr.Resource + " not found")
	}

	var conflictErr *errors.ConflictError
	if stderrors.As(err, &conflictErr) {
		return huma.Error409Conflict(conflictErr.Reason)
	}

	if errors.IsMissingCredential(err) {
		return huma.Error500InternalServerError("Service is not configured")
	}

	var apiErr *errors.ExternalAPIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusGatewayTimeout:
			return huma.Error504GatewayTimeout("External service timed out")
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return huma.Error429TooManyRequests("Rate limited by external service")
		case apiErr.StatusCode >= 500:
			return huma.Error503ServiceUnavailable("External service error")
		default:
			return huma.Error502BadGateway("Unexpected external service response")
		}
	}

	if errors.IsFetch(err) {
		return huma.Error502BadGateway("Could not fetch the page or image")
	}

	if errors.IsOutputError(err) || stderrors.Is(err, errors.ErrEmptyResponse) {
		return huma.Error502BadGateway("Model returned an unusable critique")
	}

	if errors.IsTimeout(err) || stderrors.Is(err, context.DeadlineExceeded) {
		return huma.Error504GatewayTimeout("Operation timed out")
	}

	// Default to internal server error for unknown errors
	return huma.Error500InternalServerError("Internal server error")
}

// failure logs err with its operation and converts it for the client
func failure(logger interfaces.Logger, operation string, err error, fields map[string]interface{}) error {
	if logger != nil {
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["operation"] = operation
		fields["error"] = err.Error()
		if errors.IsValidation(err) || errors.IsNotFound(err) || errors.IsConflict(err) {
			logger.Info("Request rejected", fields)
		} else {
			logger.Error("Request failed", fields)
		}
	}
	return toHumaError(err)
}

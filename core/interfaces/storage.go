// ABOUTME: Storage interfaces for persisting domain entities
// ABOUTME: Roast records are created once and read back, the screenshot URL is set at most once

package interfaces

import (
	"context"

	"conversion-roast-api/core/domain"
)

// RoastStorage defines the interface for roast persistence
type RoastStorage interface {
	// Create persists a new roast
	Create(ctx context.Context, roast *domain.Roast) error

	// Get retrieves a roast by ID, returning NotFoundError when missing
	Get(ctx context.Context, id string) (*domain.Roast, error)

	// UpdateScreenshotURL sets the screenshot of a roast that has none.
	// Returns ConflictError when one is already stored.
	UpdateScreenshotURL(ctx context.Context, id, screenshotURL string) error

	// ListByUser returns a user's roasts, newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Roast, error)

	// Close releases the backend connection
	Close() error
}

// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines the pipeline stages so the roast service can be tested with mocks

package interfaces

import (
	"context"

	"conversion-roast-api/core/domain"
)

// ScreenshotResolver turns a page URL into a captured screenshot
type ScreenshotResolver interface {
	Resolve(ctx context.Context, pageURL string) (*domain.Screenshot, error)

	// Image returns the bytes of a capture by the id in its screenshot URL
	Image(ctx context.Context, id string) ([]byte, error)
}

// FeedbackGenerator asks the vision model for a critique of a screenshot
type FeedbackGenerator interface {
	Generate(ctx context.Context, req domain.RoastRequest) (*domain.RawModelOutput, error)
}

// ScoreSynthesizer derives the scorecard from the comment list
type ScoreSynthesizer interface {
	Synthesize(comments []domain.Comment) domain.Scores
}

// HeatmapGenerator predicts an attention map for a screenshot
type HeatmapGenerator interface {
	Generate(ctx context.Context, imageURL string) (*domain.Heatmap, error)
}

// MetadataService extracts metadata from web pages
type MetadataService interface {
	ExtractMetadata(ctx context.Context, url string) (*domain.PageMetadata, error)
}

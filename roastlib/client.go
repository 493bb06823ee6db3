// ABOUTME: Main client for the roast library running the critique pipeline in process
// ABOUTME: Offers the roast, screenshot, heatmap and metadata operations without the HTTP server

package roastlib

import (
	"context"
	"time"

	coreconfig "conversion-roast-api/core/config"
	"conversion-roast-api/core/feedback"
	"conversion-roast-api/core/heatmap"
	"conversion-roast-api/core/interfaces"
	"conversion-roast-api/core/roast"
	"conversion-roast-api/core/scoring"
	"conversion-roast-api/core/screenshot"
	"conversion-roast-api/core/services"
	"conversion-roast-api/pkg/featureflags"
)

// Client is the main entry point for the roast library
type Client struct {
	roastService *roast.Service
	screenshots  *screenshot.Resolver
	heatmaps     *heatmap.Generator
	metadata     *services.PageMetadataService

	deps   interfaces.Dependencies
	config Config
}

// Config holds the configuration for the client
type Config struct {
	Cache      interfaces.Cache
	HTTPClient interfaces.HTTPClient
	Logger     interfaces.Logger

	// Storage keeps roast records, only needed for Create, Generate, Get and ListByUser
	Storage interfaces.RoastStorage

	// Model is the vision model. Without one every generation fails with MissingCredentialError.
	Model interfaces.ModelClient

	Flags featureflags.Manager

	// Strategy turns per-category issue counts into scores
	Strategy scoring.Strategy

	ScreenshotAPIKey string
	HeatmapAPIToken  string
	MaxTokens        int
	MetadataTimeout  time.Duration

	RoastOptions []coreconfig.RoastOption
}

// NewClient creates a new roast client with the given options
func NewClient(options ...Option) (*Client, error) {
	config := defaultConfig()

	for _, opt := range options {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	deps := interfaces.Dependencies{
		Cache:      config.Cache,
		HTTPClient: config.HTTPClient,
		Logger:     config.Logger,
		Storage:    config.Storage,
		Model:      config.Model,
	}

	client := &Client{
		screenshots: screenshot.NewResolver(deps, screenshot.Config{APIKey: config.ScreenshotAPIKey}),
		heatmaps:    heatmap.NewGenerator(deps, heatmap.Config{APIToken: config.HeatmapAPIToken}),
		metadata:    services.NewPageMetadataService(deps, config.MetadataTimeout),
		deps:        deps,
		config:      config,
	}

	generator := feedback.NewGenerator(deps, feedback.Config{
		MaxTokens:      config.MaxTokens,
		CredentialName: "model client",
	})

	client.roastService = roast.NewService(deps, roast.Stages{
		Screenshots: client.screenshots,
		Feedback:    generator,
		Scores:      scoring.NewSynthesizer(config.Strategy),
		Metadata:    client.metadata,
	}, config.Flags, coreconfig.NewRoastConfig(config.RoastOptions...))

	return client, nil
}

// Close releases the roast storage
func (c *Client) Close() error {
	if c.deps.Storage != nil {
		return c.deps.Storage.Close()
	}
	return nil
}

// Roast runs the pipeline for a submission without storing it
func (c *Client) Roast(ctx context.Context, sub Submission) (*RoastResult, error) {
	return c.roastService.Run(ctx, sub)
}

// Create stores a submission as a new roast
func (c *Client) Create(ctx context.Context, sub Submission) (*Roast, error) {
	if c.deps.Storage == nil {
		return nil, ErrNoStorage
	}
	return c.roastService.Create(ctx, sub)
}

// Get retrieves a stored roast
func (c *Client) Get(ctx context.Context, id string) (*Roast, error) {
	if c.deps.Storage == nil {
		return nil, ErrNoStorage
	}
	return c.roastService.Get(ctx, id)
}

// ListByUser returns a user's roasts, newest first
func (c *Client) ListByUser(ctx context.Context, userID string, limit int) ([]*Roast, error) {
	if c.deps.Storage == nil {
		return nil, ErrNoStorage
	}
	return c.roastService.ListByUser(ctx, userID, limit)
}

// Generate runs the pipeline for a stored roast
func (c *Client) Generate(ctx context.Context, id string) (*RoastResult, error) {
	if c.deps.Storage == nil {
		return nil, ErrNoStorage
	}
	return c.roastService.Generate(ctx, id)
}

// Screenshot captures a page
func (c *Client) Screenshot(ctx context.Context, pageURL string) (*Screenshot, error) {
	return c.screenshots.Resolve(ctx, pageURL)
}

// Heatmap predicts where visitors look on a screenshot
func (c *Client) Heatmap(ctx context.Context, imageURL string) (*Heatmap, error) {
	return c.heatmaps.Generate(ctx, imageURL)
}

// PageMetadata reads the title, description and preview image of a page
func (c *Client) PageMetadata(ctx context.Context, pageURL string) (*PageMetadata, error) {
	return c.metadata.ExtractMetadata(ctx, pageURL)
}

// validateConfig validates the client configuration
func validateConfig(config *Config) error {
	if config.HTTPClient == nil {
		return NewError(ErrorTypeConfiguration, "HTTP client is required")
	}

	if config.Cache == nil {
		return NewError(ErrorTypeConfiguration, "cache is required")
	}

	if config.Logger == nil {
		return NewError(ErrorTypeConfiguration, "logger is required")
	}

	if config.Strategy == nil {
		return NewError(ErrorTypeConfiguration, "scoring strategy is required")
	}

	return nil
}

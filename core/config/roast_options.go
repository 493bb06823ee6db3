// ABOUTME: Roast pipeline configuration for service-level control of retries and deadlines
// ABOUTME: Provides configuration options independent of HTTP request structures

package config

import (
	"time"

	"conversion-roast-api/core/retry"
)

// RoastConfig controls how the roast pipeline runs
type RoastConfig struct {
	// Retry bounds the attempts of one generation
	Retry retry.Policy

	// StageTimeout is the deadline of each outbound call
	StageTimeout time.Duration

	// MetadataTimeout bounds the title lookup when a roast is created
	MetadataTimeout time.Duration

	// ClampHighlights bounds highlight rectangles to the screenshot size
	ClampHighlights bool
}

// DefaultRoastConfig returns three attempts three seconds apart and a 60s stage deadline
func DefaultRoastConfig() RoastConfig {
	return RoastConfig{
		Retry:           retry.DefaultPolicy(),
		StageTimeout:    60 * time.Second,
		MetadataTimeout: 10 * time.Second,
		ClampHighlights: true,
	}
}

// RoastOption is a functional option for configuring the pipeline
type RoastOption func(*RoastConfig)

// WithRetry sets the attempt bound and the fixed delay between attempts
func WithRetry(maxAttempts int, backoff time.Duration) RoastOption {
	return func(c *RoastConfig) {
		c.Retry.MaxAttempts = maxAttempts
		c.Retry.Backoff = backoff
	}
}

// WithStageTimeout sets the per-call deadline
func WithStageTimeout(d time.Duration) RoastOption {
	return func(c *RoastConfig) {
		c.StageTimeout = d
	}
}

// WithMetadataTimeout sets the deadline of the title lookup
func WithMetadataTimeout(d time.Duration) RoastOption {
	return func(c *RoastConfig) {
		c.MetadataTimeout = d
	}
}

// WithoutHighlightClamping keeps highlight rectangles as the model returned them
func WithoutHighlightClamping() RoastOption {
	return func(c *RoastConfig) {
		c.ClampHighlights = false
	}
}

// NewRoastConfig creates a new pipeline configuration with the given options
func NewRoastConfig(opts ...RoastOption) RoastConfig {
	config := DefaultRoastConfig()

	for _, opt := range opts {
		opt(&config)
	}

	return config
}

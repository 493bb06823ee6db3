// ABOUTME: Configuration options for the roast library client
// ABOUTME: Provides functional options pattern for flexible client configuration

package roastlib

import (
	"time"

	coreconfig "conversion-roast-api/core/config"
	"conversion-roast-api/core/interfaces"
	"conversion-roast-api/core/scoring"
	"conversion-roast-api/pkg/featureflags"
)

// Option is a functional option for configuring the client
type Option func(*Config) error

// WithCache sets a custom cache implementation
func WithCache(cache interfaces.Cache) Option {
	return func(c *Config) error {
		c.Cache = cache
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client interfaces.HTTPClient) Option {
	return func(c *Config) error {
		c.HTTPClient = client
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithStorage sets the roast storage
func WithStorage(storage interfaces.RoastStorage) Option {
	return func(c *Config) error {
		c.Storage = storage
		return nil
	}
}

// WithModel sets the vision model client
func WithModel(model interfaces.ModelClient) Option {
	return func(c *Config) error {
		c.Model = model
		return nil
	}
}

// WithFeatureFlags sets the flag manager
func WithFeatureFlags(flags featureflags.Manager) Option {
	return func(c *Config) error {
		c.Flags = flags
		return nil
	}
}

// WithScoringStrategy sets how issue counts become scores
func WithScoringStrategy(strategy scoring.Strategy) Option {
	return func(c *Config) error {
		c.Strategy = strategy
		return nil
	}
}

// WithScreenshotAPIKey sets the ScreenshotMachine key
func WithScreenshotAPIKey(key string) Option {
	return func(c *Config) error {
		c.ScreenshotAPIKey = key
		return nil
	}
}

// WithHeatmapAPIToken sets the Replicate token
func WithHeatmapAPIToken(token string) Option {
	return func(c *Config) error {
		c.HeatmapAPIToken = token
		return nil
	}
}

// WithMaxTokens caps the model reply length
func WithMaxTokens(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewError(ErrorTypeValidation, "max tokens must be positive").WithContext("max_tokens", n)
		}
		c.MaxTokens = n
		return nil
	}
}

// WithRoastOptions sets the pipeline retry and timeout options
func WithRoastOptions(opts ...coreconfig.RoastOption) Option {
	return func(c *Config) error {
		c.RoastOptions = append(c.RoastOptions, opts...)
		return nil
	}
}

// WithMetadataTimeout bounds page metadata extraction
func WithMetadataTimeout(d time.Duration) Option {
	return func(c *Config) error {
		c.MetadataTimeout = d
		return nil
	}
}

// defaultConfig returns the default client configuration
func defaultConfig() Config {
	return Config{
		Cache:           DefaultMemoryCache(),
		HTTPClient:      DefaultHTTPClient(),
		Logger:          DefaultLogger(),
		Storage:         nil, // Must be provided if stored roasts are used
		Flags:           featureflags.NewDefaultManager(),
		Strategy:        scoring.NewRandomStrategy(),
		MaxTokens:       2500,
		MetadataTimeout: 10 * time.Second,
	}
}

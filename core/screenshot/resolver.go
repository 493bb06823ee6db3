// ABOUTME: Screenshot resolver captures a landing page through the ScreenshotMachine API
// ABOUTME: Captures are cached and served back under a key-free URL of this API

package screenshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/errors"
	"conversion-roast-api/core/interfaces"
)

const (
	// DefaultEndpoint is the ScreenshotMachine capture API
	DefaultEndpoint  = "https://api.screenshotmachine.com/"
	DefaultDimension = "1024x768"
	DefaultDevice    = "desktop"

	apiName = "screenshotmachine"

	// errorHeader is set by ScreenshotMachine when capture failed but a placeholder image was returned
	errorHeader = "X-Screenshotmachine-Response"

	maxErrorBody = 4 << 10

	// DefaultPublicURL is where this API is reachable when nothing else is configured
	DefaultPublicURL = "http://localhost:8000"

	// ImagePath prefixes the URLs under which captured screenshots are served
	ImagePath = "/screenshots/"
)

var imageIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// Config holds the capture settings
type Config struct {
	APIKey    string
	Endpoint  string
	Dimension string
	Device    string
	FullPage  bool
	CacheTTL  time.Duration

	// PublicURL is the base URL of this API. Screenshot URLs handed to
	// clients point below it and never carry the capture API key.
	PublicURL string
}

// Resolver turns page URLs into screenshot URLs
type Resolver struct {
	deps interfaces.Dependencies
	cfg  Config
}

// NewResolver creates a resolver, filling unset config with defaults
func NewResolver(deps interfaces.Dependencies, cfg Config) *Resolver {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Dimension == "" {
		cfg.Dimension = DefaultDimension
	}
	if cfg.Device == "" {
		cfg.Device = DefaultDevice
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = DefaultPublicURL
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	return &Resolver{deps: deps, cfg: cfg}
}

// CaptureURL builds the capture request URL for a page
func (r *Resolver) CaptureURL(pageURL string) string {
	params := url.Values{}
	params.Set("key", r.cfg.APIKey)
	params.Set("url", pageURL)
	params.Set("dimension", r.cfg.Dimension)
	params.Set("device", r.cfg.Device)
	params.Set("format", "png")
	params.Set("hidecookiebanners", "true")
	params.Set("hidepopups", "true")
	if r.cfg.FullPage {
		params.Set("full", "true")
	}
	return r.cfg.Endpoint + "?" + params.Encode()
}

// ImageID identifies the capture of pageURL with the current settings
func (r *Resolver) ImageID(pageURL string) string {
	h := sha256.New()
	for _, part := range []string{pageURL, r.cfg.Dimension, r.cfg.Device, fmt.Sprint(r.cfg.FullPage)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// ImageURL is the public URL serving the capture with the given id
func (r *Resolver) ImageURL(id string) string {
	return r.cfg.PublicURL + ImagePath + id
}

// Image returns the cached bytes of a capture
func (r *Resolver) Image(ctx context.Context, id string) ([]byte, error) {
	if !imageIDPattern.MatchString(id) {
		return nil, &errors.ValidationError{Field: "id", Message: "invalid screenshot id"}
	}
	if r.deps.Cache == nil {
		return nil, &errors.NotFoundError{Resource: "screenshot", ID: id}
	}
	data, err := r.deps.Cache.Get(ctx, domain.ImageCacheKey(r.ImageURL(id)))
	if err != nil || len(data) == 0 {
		return nil, &errors.NotFoundError{Resource: "screenshot", ID: id}
	}
	return data, nil
}

// Resolve captures pageURL. The bytes are cached under the returned
// screenshot URL, which this API serves until the cache entry expires.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (*domain.Screenshot, error) {
	if !domain.IsHTTPURL(pageURL) {
		return nil, &errors.ValidationError{Field: "url", Message: "URL must start with http:// or https://"}
	}
	if r.cfg.APIKey == "" {
		return nil, &errors.MissingCredentialError{Credential: "SCREENSHOT_API_KEY"}
	}
	if r.deps.HTTPClient == nil {
		return nil, fmt.Errorf("HTTP client not configured")
	}

	captureURL := r.CaptureURL(pageURL)

	resp, err := r.deps.HTTPClient.Get(ctx, captureURL)
	if err != nil {
		// The capture URL carries the API key, report the page URL instead
		return nil, &errors.FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body(), maxErrorBody))
		return nil, &errors.ExternalAPIError{API: apiName, StatusCode: resp.StatusCode(), Message: string(body)}
	}
	if code := resp.Header(errorHeader); code != "" {
		return nil, &errors.ExternalAPIError{API: apiName, StatusCode: resp.StatusCode(), Message: code}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body(), domain.MaxImageSize+1))
	if err != nil {
		return nil, &errors.FetchError{URL: pageURL, Err: err}
	}
	if len(data) > domain.MaxImageSize {
		return nil, &errors.FetchError{URL: pageURL, Err: errors.ErrImageTooLarge}
	}

	if len(data) == 0 {
		return nil, &errors.FetchError{URL: pageURL, Err: io.ErrUnexpectedEOF}
	}

	screenshotURL := r.ImageURL(r.ImageID(pageURL))
	if r.deps.Cache != nil {
		if err := r.deps.Cache.Set(ctx, domain.ImageCacheKey(screenshotURL), data, r.cfg.CacheTTL); err != nil {
			r.logWarn("Failed to cache screenshot", map[string]interface{}{
				"url":   pageURL,
				"error": err.Error(),
			})
		}
	}

	r.logInfo("Screenshot captured", map[string]interface{}{
		"url":   pageURL,
		"bytes": len(data),
	})

	return &domain.Screenshot{
		ScreenshotURL: screenshotURL,
		OriginalURL:   pageURL,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func (r *Resolver) logInfo(msg string, fields map[string]interface{}) {
	if r.deps.Logger != nil {
		r.deps.Logger.Info(msg, fields)
	}
}

func (r *Resolver) logWarn(msg string, fields map[string]interface{}) {
	if r.deps.Logger != nil {
		r.deps.Logger.Warn(msg, fields)
	}
}

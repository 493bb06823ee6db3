// ABOUTME: Roast domain model represents one landing page submitted for a CRO critique
// ABOUTME: Provides validation for submissions and the persisted roast record

package domain

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTitle is used when no page title can be derived
	DefaultTitle = "Untitled Roast"

	DefaultPageGoal  = "Increase conversions"
	DefaultAudience  = "General audience"
	DefaultBrandTone = "Professional"

	// MaxImageSize bounds screenshots, uploaded or downloaded
	MaxImageSize = 20 << 20
)

var httpURLPattern = regexp.MustCompile(`(?i)^https?://`)

// IsHTTPURL reports whether s starts with http:// or https://
func IsHTTPURL(s string) bool {
	return httpURLPattern.MatchString(s)
}

// PageContext carries the optional context a user gives about the page
type PageContext struct {
	Goal     string `json:"page_goal"`
	Audience string `json:"audience"`
	Tone     string `json:"brand_tone"`
}

// WithDefaults fills empty fields with the documented defaults
func (c PageContext) WithDefaults() PageContext {
	if strings.TrimSpace(c.Goal) == "" {
		c.Goal = DefaultPageGoal
	}
	if strings.TrimSpace(c.Audience) == "" {
		c.Audience = DefaultAudience
	}
	if strings.TrimSpace(c.Tone) == "" {
		c.Tone = DefaultBrandTone
	}
	return c
}

// ImageRef points at the screenshot to critique. Exactly one of URL or Data is set.
type ImageRef struct {
	URL      string
	Data     []byte
	MIMEType string
}

// IsInline reports whether the image bytes are carried inline
func (r ImageRef) IsInline() bool {
	return len(r.Data) > 0
}

// Validate checks that the reference is usable
func (r ImageRef) Validate() error {
	switch {
	case r.IsInline() && r.URL != "":
		return errors.New("image must be either a URL or inline data, not both")
	case r.IsInline() && len(r.Data) > MaxImageSize:
		return errors.New("image data exceeds 20 MB")
	case r.IsInline():
		return nil
	case r.URL == "":
		return errors.New("image URL is required")
	case !IsHTTPURL(r.URL):
		return errors.New("image URL must start with http:// or https://")
	}
	return nil
}

// DataURL encodes inline image bytes so they can be stored as a screenshot URL
func DataURL(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseImageRef turns a stored screenshot URL back into an ImageRef.
// Base64 data URLs become inline references.
func ParseImageRef(s string) (ImageRef, error) {
	if !strings.HasPrefix(s, "data:") {
		ref := ImageRef{URL: s}
		return ref, ref.Validate()
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return ImageRef{}, errors.New("image data URL must be base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ImageRef{}, errors.New("image data URL is not valid base64")
	}
	ref := ImageRef{Data: data, MIMEType: strings.TrimSuffix(meta, ";base64")}
	return ref, ref.Validate()
}

// RoastRequest is the immutable input of one feedback generation
type RoastRequest struct {
	Image   ImageRef
	Context PageContext
}

// Submission is what a user sends to create a roast
type Submission struct {
	UserID   *string
	Title    string
	URL      string
	ImageURL string

	// ImageData holds an uploaded screenshot
	ImageData     []byte
	ImageMIMEType string

	Context PageContext
}

// HasImage reports whether the submission carries a screenshot
func (s Submission) HasImage() bool {
	return s.ImageURL != "" || len(s.ImageData) > 0
}

// Validate checks that there is something to analyze
func (s Submission) Validate() error {
	if !s.HasImage() && strings.TrimSpace(s.URL) == "" {
		return errors.New("a screenshot or a page URL is required")
	}
	if s.URL != "" && !IsHTTPURL(s.URL) {
		return errors.New("page URL must start with http:// or https://")
	}
	if s.HasImage() {
		return s.Image().Validate()
	}
	return nil
}

// Image returns the screenshot reference carried by the submission
func (s Submission) Image() ImageRef {
	if len(s.ImageData) > 0 {
		return ImageRef{Data: s.ImageData, MIMEType: s.ImageMIMEType}
	}
	return ImageRef{URL: s.ImageURL}
}

// Roast is the persisted record of one submission
type Roast struct {
	ID            string    `json:"id" bson:"_id"`
	UserID        *string   `json:"user_id" bson:"user_id"`
	Title         string    `json:"title" bson:"title"`
	URL           *string   `json:"url" bson:"url"`
	PageGoal      string    `json:"page_goal" bson:"page_goal"`
	Audience      string    `json:"audience" bson:"audience"`
	BrandTone     string    `json:"brand_tone" bson:"brand_tone"`
	ScreenshotURL string    `json:"screenshot_url" bson:"screenshot_url"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// NewRoast creates a roast record from a validated submission
func NewRoast(s Submission) (*Roast, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = DefaultTitle
	}

	var pageURL *string
	if s.URL != "" {
		u := s.URL
		pageURL = &u
	}

	screenshotURL := s.ImageURL
	if len(s.ImageData) > 0 {
		screenshotURL = DataURL(s.ImageData, s.ImageMIMEType)
	}

	now := time.Now().UTC()
	return &Roast{
		ID:            uuid.New().String(),
		UserID:        s.UserID,
		Title:         title,
		URL:           pageURL,
		PageGoal:      s.Context.Goal,
		Audience:      s.Context.Audience,
		BrandTone:     s.Context.Tone,
		ScreenshotURL: screenshotURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Context returns the page context stored on the record
func (r *Roast) Context() PageContext {
	return PageContext{Goal: r.PageGoal, Audience: r.Audience, Tone: r.BrandTone}
}

// PageURL returns the submitted page URL or an empty string
func (r *Roast) PageURL() string {
	if r.URL == nil {
		return ""
	}
	return *r.URL
}

// NeedsScreenshot reports whether the screenshot must be resolved from the page URL
func (r *Roast) NeedsScreenshot() bool {
	return r.ScreenshotURL == "" && r.PageURL() != ""
}

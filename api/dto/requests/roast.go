// ABOUTME: Request DTOs for roast, screenshot and heatmap endpoints
// ABOUTME: Resolves field aliases and converts requests to domain submissions

package requests

import (
	"net/http"
	"strings"

	"conversion-roast-api/core/domain"
)

// CreateRoastRequest is the body of POST /roasts
type CreateRoastRequest struct {
	UserID *string `json:"user_id,omitempty" doc:"Owner of the roast"`
	Title  string  `json:"title,omitempty" maxLength:"200" doc:"Roast title, derived from the page when empty"`
	URL    string  `json:"url,omitempty" doc:"Landing page URL, captured when no screenshot is given"`

	ImageURL string `json:"image_url,omitempty" doc:"Publicly reachable screenshot URL"`

	// ImageData is decoded from base64 by encoding/json
	ImageData     []byte `json:"image_data,omitempty" doc:"Base64 encoded screenshot upload"`
	ImageMIMEType string `json:"image_mime_type,omitempty" doc:"MIME type of image_data, sniffed when empty"`

	PageGoal  string `json:"page_goal,omitempty" maxLength:"500" doc:"What the page should achieve"`
	Audience  string `json:"audience,omitempty" maxLength:"500" doc:"Who the page is for"`
	BrandTone string `json:"brand_tone,omitempty" maxLength:"200" doc:"Voice the copy should keep"`
}

// ToSubmission converts the request to a domain submission
func (r *CreateRoastRequest) ToSubmission() domain.Submission {
	sub := domain.Submission{
		UserID:   normalizeUserID(r.UserID),
		Title:    strings.TrimSpace(r.Title),
		URL:      strings.TrimSpace(r.URL),
		ImageURL: strings.TrimSpace(r.ImageURL),
		Context: domain.PageContext{
			Goal:     strings.TrimSpace(r.PageGoal),
			Audience: strings.TrimSpace(r.Audience),
			Tone:     strings.TrimSpace(r.BrandTone),
		},
	}
	if len(r.ImageData) > 0 {
		sub.ImageData = r.ImageData
		sub.ImageMIMEType = imageMIMEType(r.ImageData, r.ImageMIMEType)
	}
	return sub
}

// GenerateRoastRequest is the body of POST /generate-roast.
// Older clients send screenshot_url, goal and tone.
type GenerateRoastRequest struct {
	ImageURL      string `json:"image_url,omitempty" doc:"Screenshot URL"`
	ScreenshotURL string `json:"screenshot_url,omitempty" doc:"Alias of image_url"`
	URL           string `json:"url,omitempty" doc:"Landing page URL, captured when no screenshot is given"`

	ImageData     []byte `json:"image_data,omitempty" doc:"Base64 encoded screenshot upload"`
	ImageMIMEType string `json:"image_mime_type,omitempty" doc:"MIME type of image_data"`

	PageGoal  string `json:"page_goal,omitempty" maxLength:"500" doc:"What the page should achieve"`
	Goal      string `json:"goal,omitempty" maxLength:"500" doc:"Alias of page_goal"`
	Audience  string `json:"audience,omitempty" maxLength:"500" doc:"Who the page is for"`
	BrandTone string `json:"brand_tone,omitempty" maxLength:"200" doc:"Voice the copy should keep"`
	Tone      string `json:"tone,omitempty" maxLength:"200" doc:"Alias of brand_tone"`
}

// ToSubmission resolves aliases, preferring the canonical field names
func (r *GenerateRoastRequest) ToSubmission() domain.Submission {
	sub := domain.Submission{
		URL:      strings.TrimSpace(r.URL),
		ImageURL: firstNonEmpty(r.ImageURL, r.ScreenshotURL),
		Context: domain.PageContext{
			Goal:     firstNonEmpty(r.PageGoal, r.Goal),
			Audience: strings.TrimSpace(r.Audience),
			Tone:     firstNonEmpty(r.BrandTone, r.Tone),
		},
	}
	if len(r.ImageData) > 0 {
		sub.ImageData = r.ImageData
		sub.ImageMIMEType = imageMIMEType(r.ImageData, r.ImageMIMEType)
	}
	return sub
}

// ScreenshotRequest is the body of POST /generate-screenshot
type ScreenshotRequest struct {
	URL string `json:"url" minLength:"1" doc:"Landing page URL to capture"`
}

// HeatmapRequest is the body of POST /generate-heatmap
type HeatmapRequest struct {
	ImageURL string `json:"image_url" minLength:"1" doc:"Screenshot URL to analyze"`
}

// PageMetadataRequest is the body of POST /page-metadata
type PageMetadataRequest struct {
	URL string `json:"url" minLength:"1" doc:"Landing page URL"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func normalizeUserID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func imageMIMEType(data []byte, declared string) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	return http.DetectContentType(data)
}

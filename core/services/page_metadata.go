// ABOUTME: Page metadata service extracts the title, description and preview image of a landing page
// ABOUTME: Uses colly to scrape Open Graph tags, falling back to plain head tags and JSON-LD

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/tidwall/gjson"

	"conversion-roast-api/core/domain"
	"conversion-roast-api/core/interfaces"
)

const (
	collyUserAgent   = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"
	metadataCacheTTL = 24 * time.Hour
	maxPageSize      = 5 * 1024 * 1024
)

// PageMetadataService handles metadata extraction from landing page URLs
type PageMetadataService struct {
	deps    interfaces.Dependencies
	timeout time.Duration
}

// NewPageMetadataService creates a new metadata service
func NewPageMetadataService(deps interfaces.Dependencies, timeout time.Duration) *PageMetadataService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PageMetadataService{
		deps:    deps,
		timeout: timeout,
	}
}

// ExtractMetadata extracts metadata from a single URL, cached for a day
func (s *PageMetadataService) ExtractMetadata(ctx context.Context, targetURL string) (*domain.PageMetadata, error) {
	if !domain.IsHTTPURL(targetURL) {
		return nil, fmt.Errorf("invalid page URL: %q", targetURL)
	}

	cacheKey := "metadata:" + targetURL
	if s.deps.Cache != nil {
		if data, err := s.deps.Cache.Get(ctx, cacheKey); err == nil && data != nil {
			var result domain.PageMetadata
			if err := json.Unmarshal(data, &result); err == nil {
				return &result, nil
			}
		}
	}

	result, err := s.extractFromURL(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	// Pages without a theme-color meta get the preview image's dominant color
	if result.ThemeColor == "" && result.Image != "" {
		if color, err := s.dominantColor(ctx, result.Image); err == nil {
			result.ThemeColor = color
		} else {
			s.logDebug("Failed to extract theme color", result.Image, err)
		}
	}

	if s.deps.Cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = s.deps.Cache.Set(ctx, cacheKey, data, metadataCacheTTL)
		}
	}

	return result, nil
}

// extractFromURL performs the actual metadata extraction
func (s *PageMetadataService) extractFromURL(ctx context.Context, targetURL string) (*domain.PageMetadata, error) {
	c := colly.NewCollector(
		colly.UserAgent(collyUserAgent),
		colly.MaxBodySize(maxPageSize),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	c.SetRequestTimeout(timeout)

	result := &domain.PageMetadata{}

	// Open Graph tags win over plain head tags
	c.OnHTML("meta", func(e *colly.HTMLElement) {
		property := e.Attr("property")
		content := strings.TrimSpace(e.Attr("content"))
		name := e.Attr("name")

		if content == "" {
			return
		}

		if name == "theme-color" && result.ThemeColor == "" {
			result.ThemeColor = content
		}
		if name == "twitter:image" && result.Image == "" {
			result.Image = e.Request.AbsoluteURL(content)
		}

		switch property {
		case "og:title":
			result.Title = content
		case "og:description":
			result.Description = content
		case "og:image":
			result.Image = e.Request.AbsoluteURL(content)
		}
	})

	c.OnHTML("head", func(e *colly.HTMLElement) {
		if result.Title == "" {
			if title := e.DOM.Find("title").First().Text(); title != "" {
				result.Title = strings.TrimSpace(title)
			}
		}

		if result.Description == "" {
			e.DOM.Find("meta[name='description']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if content, exists := s.Attr("content"); exists && strings.TrimSpace(content) != "" {
					result.Description = strings.TrimSpace(content)
					return false
				}
				return true
			})
		}
	})

	c.OnHTML("script[type='application/ld+json']", func(e *colly.HTMLElement) {
		if result.Image != "" {
			return
		}
		ld := gjson.Parse(e.Text)
		if img := ld.Get("image"); img.Type == gjson.String && img.Str != "" {
			result.Image = img.Str
		} else if img := ld.Get("image.url"); img.Type == gjson.String {
			result.Image = img.Str
		}
	})

	c.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			r.Abort()
		default:
		}
		if parsedURL, err := url.Parse(r.URL.String()); err == nil {
			result.Domain = parsedURL.Host
		}
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
	})

	if err := c.Visit(targetURL); err != nil {
		s.logDebug("Failed to visit URL for metadata extraction", targetURL, err)
		return nil, err
	}
	if visitErr != nil {
		s.logDebug("Error visiting URL for metadata", targetURL, visitErr)
		return nil, visitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PageMetadataService) logDebug(msg, targetURL string, err error) {
	if s.deps.Logger == nil {
		return
	}
	s.deps.Logger.Debug(msg, map[string]interface{}{
		"url":   targetURL,
		"error": err.Error(),
	})
}

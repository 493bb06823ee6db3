// ABOUTME: Media domain models returned by the screenshot, heatmap and page metadata services
// ABOUTME: Shapes mirror the JSON replies the report UI already consumes

package domain

import "time"

// Screenshot is the result of resolving a page URL to a captured image
type Screenshot struct {
	ScreenshotURL string    `json:"screenshot_url"`
	OriginalURL   string    `json:"original_url"`
	Timestamp     time.Time `json:"timestamp"`
}

// Heatmap is a predicted attention map for a screenshot
type Heatmap struct {
	HeatmapURL  string    `json:"heatmap_url"`
	OriginalURL string    `json:"original_url"`
	Timestamp   time.Time `json:"timestamp"`
}

// PageMetadata is what we can learn about a landing page from its HTML head
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ThemeColor  string `json:"theme_color"`
	Domain      string `json:"domain"`
}

// ImageCacheKey is the cache key for downloaded screenshot bytes
func ImageCacheKey(imageURL string) string {
	return "image:" + imageURL
}

// ABOUTME: Response DTOs for roast, screenshot, heatmap and health endpoints
// ABOUTME: Field names match what the report UI already reads

package responses

import "time"

// RoastResponse is a stored roast record
type RoastResponse struct {
	ID            string    `json:"id" doc:"Roast identifier"`
	UserID        *string   `json:"user_id" doc:"Owner, null for anonymous roasts"`
	Title         string    `json:"title" doc:"Roast title"`
	URL           *string   `json:"url" doc:"Landing page URL, null for screenshot uploads"`
	PageGoal      string    `json:"page_goal" doc:"What the page should achieve"`
	Audience      string    `json:"audience" doc:"Who the page is for"`
	BrandTone     string    `json:"brand_tone" doc:"Voice the copy should keep"`
	ScreenshotURL string    `json:"screenshot_url" doc:"Screenshot used for the critique, empty until resolved"`
	CreatedAt     time.Time `json:"created_at" doc:"When the roast was created"`
	UpdatedAt     time.Time `json:"updated_at" doc:"When the roast was last changed"`
}

// RoastListResponse is a user's roasts, newest first
type RoastListResponse struct {
	Roasts []RoastResponse `json:"roasts" doc:"Roasts, newest first"`
	Count  int             `json:"count" doc:"Number of roasts returned"`
}

// HighlightAreaResponse is a rectangle on the screenshot
type HighlightAreaResponse struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CommentResponse is one issue and its fix
type CommentResponse struct {
	ID            int                   `json:"id" doc:"Position in the critique, starting at 1"`
	Section       string                `json:"section" doc:"Page section the comment is about"`
	Category      string                `json:"category" enum:"Clarity,CTAs,Copy,Design,Trust,General" doc:"Comment category"`
	Issue         string                `json:"issue" doc:"What hurts conversion"`
	Solution      string                `json:"solution" doc:"How to fix it"`
	Example       string                `json:"example" doc:"Example rewrite or layout"`
	HighlightArea HighlightAreaResponse `json:"highlightArea" doc:"Area of the screenshot the comment refers to"`
}

// ScoresResponse is the CRO scorecard
type ScoresResponse struct {
	Overall          int `json:"overall" minimum:"0" maximum:"100"`
	VisualHierarchy  int `json:"visualHierarchy" minimum:"0" maximum:"100"`
	ValueProposition int `json:"valueProposition" minimum:"0" maximum:"100"`
	CTAStrength      int `json:"ctaStrength" minimum:"0" maximum:"100"`
	CopyResonance    int `json:"copyResonance" minimum:"0" maximum:"100"`
	TrustCredibility int `json:"trustCredibility" minimum:"0" maximum:"100"`
}

// RoastResultResponse is the critique rendered by the report UI
type RoastResultResponse struct {
	RoastID       string            `json:"roast_id,omitempty" doc:"Stored roast the critique belongs to"`
	Comments      []CommentResponse `json:"comments" doc:"Issues found on the page"`
	Scores        ScoresResponse    `json:"scores" doc:"Scorecard derived from the comments"`
	Source        string            `json:"source" doc:"Model that produced the critique, or fallback"`
	ScreenshotURL string            `json:"screenshot_url" doc:"Screenshot that was analyzed"`
	Fallback      bool              `json:"fallback" doc:"Set when the model output could not be used"`
}

// ScreenshotResponse is a captured page
type ScreenshotResponse struct {
	ScreenshotURL string    `json:"screenshot_url" doc:"Captured screenshot"`
	OriginalURL   string    `json:"original_url" doc:"Page that was captured"`
	Timestamp     time.Time `json:"timestamp"`
}

// HeatmapResponse is a predicted attention map
type HeatmapResponse struct {
	HeatmapURL  string    `json:"heatmap_url" doc:"Heatmap image"`
	OriginalURL string    `json:"original_url" doc:"Screenshot that was analyzed"`
	Timestamp   time.Time `json:"timestamp"`
}

// PageMetadataResponse is what the page head says about itself
type PageMetadataResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ThemeColor  string `json:"theme_color"`
	Domain      string `json:"domain"`
}

// HealthResponse reports liveness and configured backends
type HealthResponse struct {
	Status    string          `json:"status" example:"ok"`
	Cache     string          `json:"cache" doc:"Cache backend"`
	Storage   string          `json:"storage" doc:"Roast storage backend"`
	Model     string          `json:"model" doc:"Vision model, empty when not configured"`
	Features  map[string]bool `json:"features" doc:"Feature flag states"`
	Timestamp time.Time       `json:"timestamp"`
}

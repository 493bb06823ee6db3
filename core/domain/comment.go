// ABOUTME: Comment and score domain models produced by one roast generation
// ABOUTME: Scores keep the overall value derived from the five category scores

package domain

// Canonical comment categories
const (
	CategoryClarity = "Clarity"
	CategoryCTAs    = "CTAs"
	CategoryCopy    = "Copy"
	CategoryDesign  = "Design"
	CategoryTrust   = "Trust"
	CategoryGeneral = "General"
)

// HighlightArea is a rectangle in screenshot pixel coordinates
type HighlightArea struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero reports whether the area is unknown
func (h HighlightArea) IsZero() bool {
	return h == HighlightArea{}
}

// Comment is one issue/fix item tied to a page section and category
type Comment struct {
	ID            int           `json:"id"`
	Section       string        `json:"section"`
	Category      string        `json:"category"`
	Issue         string        `json:"issue"`
	Solution      string        `json:"solution"`
	Example       string        `json:"example"`
	HighlightArea HighlightArea `json:"highlightArea"`
}

// Scores holds the CRO scorecard. Build it with NewScores.
type Scores struct {
	Overall          int `json:"overall"`
	VisualHierarchy  int `json:"visualHierarchy"`
	ValueProposition int `json:"valueProposition"`
	CTAStrength      int `json:"ctaStrength"`
	CopyResonance    int `json:"copyResonance"`
	TrustCredibility int `json:"trustCredibility"`
}

// NewScores clamps the five category scores to 0..100 and derives Overall
// as the floor of their mean.
func NewScores(visualHierarchy, valueProposition, ctaStrength, copyResonance, trustCredibility int) Scores {
	s := Scores{
		VisualHierarchy:  clampScore(visualHierarchy),
		ValueProposition: clampScore(valueProposition),
		CTAStrength:      clampScore(ctaStrength),
		CopyResonance:    clampScore(copyResonance),
		TrustCredibility: clampScore(trustCredibility),
	}
	sum := s.VisualHierarchy + s.ValueProposition + s.CTAStrength + s.CopyResonance + s.TrustCredibility
	s.Overall = sum / 5
	return s
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// RoastResult is the stable shape rendered by the report UI
type RoastResult struct {
	Comments      []Comment `json:"comments"`
	Scores        Scores    `json:"scores"`
	Source        string    `json:"source"`
	ScreenshotURL string    `json:"screenshot_url"`

	// Fallback is set when the model output could not be used
	Fallback bool `json:"fallback"`
}

// RawModelOutput is the unparsed reply of the vision model
type RawModelOutput struct {
	Text        string
	Source      string
	ImageWidth  int
	ImageHeight int
}

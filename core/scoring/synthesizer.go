// ABOUTME: Synthesizer derives the scorecard from how comments spread across CRO categories
// ABOUTME: The scores are a heuristic over comment counts, not a measurement of the page

package scoring

import (
	"strings"

	"conversion-roast-api/core/domain"
)

// Keywords matched case-insensitively against Comment.Category
const (
	KeywordVisualHierarchy = "visual hierarchy"
	KeywordClarity         = "clarity"
	KeywordCTA             = "cta"
	KeywordCopy            = "copy"
	KeywordTrust           = "trust"
)

// Synthesizer computes Scores with a Strategy
type Synthesizer struct {
	strategy Strategy
}

// NewSynthesizer creates a synthesizer. A nil strategy means RandomStrategy.
func NewSynthesizer(strategy Strategy) *Synthesizer {
	if strategy == nil {
		strategy = NewRandomStrategy()
	}
	return &Synthesizer{strategy: strategy}
}

// Synthesize scores each category by its comment count and derives the overall score
func (s *Synthesizer) Synthesize(comments []domain.Comment) domain.Scores {
	return domain.NewScores(
		s.strategy.Score(CountCategory(comments, KeywordVisualHierarchy)),
		s.strategy.Score(CountCategory(comments, KeywordClarity)),
		s.strategy.Score(CountCategory(comments, KeywordCTA)),
		s.strategy.Score(CountCategory(comments, KeywordCopy)),
		s.strategy.Score(CountCategory(comments, KeywordTrust)),
	)
}

// CountCategory counts comments whose category contains keyword, ignoring case
func CountCategory(comments []domain.Comment, keyword string) int {
	keyword = strings.ToLower(keyword)
	n := 0
	for _, c := range comments {
		if strings.Contains(strings.ToLower(c.Category), keyword) {
			n++
		}
	}
	return n
}

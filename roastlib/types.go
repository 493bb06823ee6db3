// ABOUTME: Public types for the roast library API
// ABOUTME: Aliases the domain models so callers need not import core packages

package roastlib

import "conversion-roast-api/core/domain"

type (
	Submission    = domain.Submission
	PageContext   = domain.PageContext
	Roast         = domain.Roast
	RoastResult   = domain.RoastResult
	Comment       = domain.Comment
	HighlightArea = domain.HighlightArea
	Scores        = domain.Scores
	Screenshot    = domain.Screenshot
	Heatmap       = domain.Heatmap
	PageMetadata  = domain.PageMetadata
)

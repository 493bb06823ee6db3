package roast

import "conversion-roast-api/core/domain"

// FallbackSource marks results built from the fallback critique
const FallbackSource = "fallback"

// FallbackComments is the fixed critique returned when model output cannot be used
func FallbackComments() []domain.Comment {
	return []domain.Comment{{
		ID:       1,
		Section:  "Page",
		Category: domain.CategoryGeneral,
		Issue:    "Unable to extract specific feedback from AI analysis.",
		Solution: "Please try again with a clearer image of your landing page.",
		Example:  "Ensure the image clearly shows all page elements including text, buttons, and visuals.",
	}}
}

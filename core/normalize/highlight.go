package normalize

import "conversion-roast-api/core/domain"

// ClampHighlights bounds every highlight rectangle to a width x height image.
// Unknown dimensions leave the comments unchanged.
func ClampHighlights(comments []domain.Comment, width, height int) []domain.Comment {
	if width <= 0 || height <= 0 {
		return comments
	}
	out := make([]domain.Comment, len(comments))
	for i, c := range comments {
		if !c.HighlightArea.IsZero() {
			c.HighlightArea = clampArea(c.HighlightArea, width, height)
		}
		out[i] = c
	}
	return out
}

func clampArea(a domain.HighlightArea, width, height int) domain.HighlightArea {
	a.X = clamp(a.X, 0, width)
	a.Y = clamp(a.Y, 0, height)
	a.Width = clamp(a.Width, 0, width-a.X)
	a.Height = clamp(a.Height, 0, height-a.Y)
	return a
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

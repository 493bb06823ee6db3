// ABOUTME: Mappers for converting roast domain models to API DTOs
// ABOUTME: Keeps slices non-nil so clients always receive arrays

package mappers

import (
	"conversion-roast-api/api/dto/responses"
	"conversion-roast-api/core/domain"
)

// ToRoastResponse converts a stored roast
func ToRoastResponse(roast *domain.Roast) *responses.RoastResponse {
	if roast == nil {
		return nil
	}
	return &responses.RoastResponse{
		ID:            roast.ID,
		UserID:        roast.UserID,
		Title:         roast.Title,
		URL:           roast.URL,
		PageGoal:      roast.PageGoal,
		Audience:      roast.Audience,
		BrandTone:     roast.BrandTone,
		ScreenshotURL: roast.ScreenshotURL,
		CreatedAt:     roast.CreatedAt,
		UpdatedAt:     roast.UpdatedAt,
	}
}

// ToRoastListResponse converts a list of roasts
func ToRoastListResponse(roasts []*domain.Roast) *responses.RoastListResponse {
	out := &responses.RoastListResponse{
		Roasts: make([]responses.RoastResponse, 0, len(roasts)),
	}
	for _, r := range roasts {
		if resp := ToRoastResponse(r); resp != nil {
			out.Roasts = append(out.Roasts, *resp)
		}
	}
	out.Count = len(out.Roasts)
	return out
}

// ToRoastResultResponse converts a generated critique
func ToRoastResultResponse(roastID string, result *domain.RoastResult) *responses.RoastResultResponse {
	if result == nil {
		return nil
	}

	comments := make([]responses.CommentResponse, 0, len(result.Comments))
	for _, c := range result.Comments {
		comments = append(comments, responses.CommentResponse{
			ID:       c.ID,
			Section:  c.Section,
			Category: c.Category,
			Issue:    c.Issue,
			Solution: c.Solution,
			Example:  c.Example,
			HighlightArea: responses.HighlightAreaResponse{
				X:      c.HighlightArea.X,
				Y:      c.HighlightArea.Y,
				Width:  c.HighlightArea.Width,
				Height: c.HighlightArea.Height,
			},
		})
	}

	return &responses.RoastResultResponse{
		RoastID:  roastID,
		Comments: comments,
		Scores: responses.ScoresResponse{
			Overall:          result.Scores.Overall,
			VisualHierarchy:  result.Scores.VisualHierarchy,
			ValueProposition: result.Scores.ValueProposition,
			CTAStrength:      result.Scores.CTAStrength,
			CopyResonance:    result.Scores.CopyResonance,
			TrustCredibility: result.Scores.TrustCredibility,
		},
		Source:        result.Source,
		ScreenshotURL: result.ScreenshotURL,
		Fallback:      result.Fallback,
	}
}

// ToScreenshotResponse converts a captured screenshot
func ToScreenshotResponse(s *domain.Screenshot) *responses.ScreenshotResponse {
	if s == nil {
		return nil
	}
	return &responses.ScreenshotResponse{
		ScreenshotURL: s.ScreenshotURL,
		OriginalURL:   s.OriginalURL,
		Timestamp:     s.Timestamp,
	}
}

// ToHeatmapResponse converts a heatmap prediction
func ToHeatmapResponse(h *domain.Heatmap) *responses.HeatmapResponse {
	if h == nil {
		return nil
	}
	return &responses.HeatmapResponse{
		HeatmapURL:  h.HeatmapURL,
		OriginalURL: h.OriginalURL,
		Timestamp:   h.Timestamp,
	}
}

// ToPageMetadataResponse converts page metadata
func ToPageMetadataResponse(m *domain.PageMetadata) *responses.PageMetadataResponse {
	if m == nil {
		return &responses.PageMetadataResponse{}
	}
	return &responses.PageMetadataResponse{
		Title:       m.Title,
		Description: m.Description,
		Image:       m.Image,
		ThemeColor:  m.ThemeColor,
		Domain:      m.Domain,
	}
}

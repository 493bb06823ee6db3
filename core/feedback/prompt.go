package feedback

import (
	"fmt"

	"conversion-roast-api/core/domain"
)

// UserPrompt accompanies the screenshot in the user message
const UserPrompt = "Analyze this landing page screenshot and provide detailed, actionable feedback for improving conversion rates."

const systemPromptTemplate = `You are a senior CRO (Conversion Rate Optimization) expert analyzing landing pages.

Analyze this landing page screenshot based on these contextual details:
- Page Goal: %s
- Target Audience: %s
- Brand Tone: %s

For each relevant section (Hero, Features, Testimonials, Pricing, CTA, etc.), identify:
1. What's wrong - UX issues, copy problems, clarity concerns, or trust elements
2. How to fix it - provide a clear, actionable suggestion
3. Example - provide a specific example of the fix (rewrite, redesign)

Organize your analysis by category:
- Clarity (clear value proposition, easy understanding)
- Visual Hierarchy (layout, attention flow)
- CTA Strength (button placement, copy, contrast)
- Copy Resonance (messaging alignment with audience)
- Trust & Credibility (social proof, credentials)

When you can locate the section on the screenshot, add a "highlightArea" with
pixel coordinates {"x", "y", "width", "height"} relative to the top-left corner.

Return ONLY valid JSON in this exact format:
{
  "feedback": [
    {
      "section": "Hero",
      "category": "Clarity",
      "issue": "Headline lacks clear value proposition.",
      "suggestion": "Rewrite headline to focus on primary benefit.",
      "example": "Boost Conversions by 37%% with AI-Powered Landing Pages"
    }
  ]
}`

// SystemPrompt embeds the page context into the CRO instructions
func SystemPrompt(pc domain.PageContext) string {
	pc = pc.WithDefaults()
	return fmt.Sprintf(systemPromptTemplate, pc.Goal, pc.Audience, pc.Tone)
}

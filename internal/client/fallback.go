package client

import "github.com/checkfox/leadintel/internal/models"

const connectionTestPrompt = "Reply with the single word OK."

const genericFallback = "The AI service is temporarily unavailable. Please try again later."

var staticFallbacks = map[models.Purpose]string{
	models.PurposeLeadAnalysis:    "AI lead analysis is temporarily unavailable. Review the computed score and recommendations, and contact the lead within 24-48 hours.",
	models.PurposeMarketingAdvice: "AI marketing advice is temporarily unavailable. Review lead volume and conversion by source and shift budget toward the best performing channels.",
	models.PurposeSalesScript:     "AI script generation is temporarily unavailable. Open with a short introduction, ask about current needs, present the key benefit and agree on a next step.",
	models.PurposeLeadComparison:  "AI comparison is temporarily unavailable. Prioritize the leads with the highest scores and complete the missing information of the others.",
	models.PurposeLeadTrends:      "AI trend analysis is temporarily unavailable. Compare category distribution and source averages to spot where lead quality is changing.",
	models.PurposeConnectionTest:  "Connection test failed.",
}

// Fallback returns the static text used when no completion could be obtained
func Fallback(purpose models.Purpose) string {
	if text, ok := staticFallbacks[purpose]; ok {
		return text
	}
	return genericFallback
}

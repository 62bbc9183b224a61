package matching

import (
	"fmt"
	"strings"

	"factory-matching/internal/models"
)

// NoMatchGuidance is returned as the summary when no factory passes the filter.
const NoMatchGuidance = "No factories match the given conditions. Try relaxing the constraints."

// FallbackSummary is the deterministic recommendation for the top candidate.
func FallbackSummary(top models.MatchResult) string {
	specialty := "general food production"
	if len(top.Factory.Specialties) > 0 && strings.TrimSpace(top.Factory.Specialties[0]) != "" {
		specialty = top.Factory.Specialties[0]
	}
	return fmt.Sprintf(
		"%s is the top recommendation, with dedicated %s facilities and a %s rating.",
		top.Factory.Name, specialty, formatRating(top.Factory.Rating),
	)
}

// BuildPrompt renders the text-generation prompt from the top matches and the
// original criteria only.
func BuildPrompt(top []models.MatchResult, req models.MatchRequest) string {
	var sb strings.Builder

	sb.WriteString("You are a food manufacturing consultant. Recommend the best factory for the client ")
	sb.WriteString("in two or three sentences, citing concrete strengths.\n\n")

	sb.WriteString("Client requirements:\n")
	fmt.Fprintf(&sb, "- Category: %s\n", req.RecipeCategory)
	fmt.Fprintf(&sb, "- Monthly quantity: %d\n", req.MonthlyQuantity)
	if req.Budget > 0 {
		fmt.Fprintf(&sb, "- Budget: %.0f\n", req.Budget)
	}
	if len(req.RequiredCertifications) > 0 {
		fmt.Fprintf(&sb, "- Required certifications: %s\n", strings.Join(req.RequiredCertifications, ", "))
	}
	if req.PreferredRegion != "" {
		fmt.Fprintf(&sb, "- Preferred region: %s\n", req.PreferredRegion)
	}
	fmt.Fprintf(&sb, "- Urgency: %s\n", req.Urgency)

	sb.WriteString("\nCandidate factories:\n")
	for i, m := range top {
		fmt.Fprintf(&sb, "%d. %s (%s) score %.1f, rating %s, specialties %s, lead time %d days, unit cost %d\n",
			i+1,
			m.Factory.Name,
			m.Factory.Region,
			m.MatchScore,
			formatRating(m.Factory.Rating),
			strings.Join(m.Factory.Specialties, ", "),
			m.EstimatedLeadTime.Standard,
			m.EstimatedCost.DiscountedUnitCost,
		)
	}

	return sb.String()
}

package models

import "strings"

// Urgency is the requester's scheduling pressure.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyFlexible Urgency = "flexible"
)

// Valid reports whether u is one of the known urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyFlexible:
		return true
	}
	return false
}

// MatchRequest is the set of production requirements submitted by a requester.
// A zero Budget means no budget constraint.
type MatchRequest struct {
	RecipeCategory         string   `json:"recipeCategory"`
	MonthlyQuantity        int      `json:"monthlyQuantity"`
	Budget                 float64  `json:"budget,omitempty"`
	RequiredCertifications []string `json:"requiredCertifications"`
	PreferredRegion        string   `json:"preferredRegion,omitempty"`
	Urgency                Urgency  `json:"urgency"`
}

// Normalize trims free-text fields and fills defaults in place.
func (r *MatchRequest) Normalize() {
	r.RecipeCategory = strings.TrimSpace(r.RecipeCategory)
	r.PreferredRegion = strings.TrimSpace(r.PreferredRegion)
	if r.Urgency == "" {
		r.Urgency = UrgencyNormal
	}
	if r.RequiredCertifications == nil {
		r.RequiredCertifications = []string{}
	}
}

// ScoreBreakdown holds the per-criterion contributions to a match score.
type ScoreBreakdown struct {
	Specialty  float64 `json:"specialty"`
	Rating     float64 `json:"rating"`
	Experience float64 `json:"experience"`
	Price      float64 `json:"price"`
	LeadTime   float64 `json:"leadTime"`
	Region     float64 `json:"region"`
}

// Total is the sum of all contributions.
func (b ScoreBreakdown) Total() float64 {
	return b.Specialty + b.Rating + b.Experience + b.Price + b.LeadTime + b.Region
}

// CostEstimate is the volume-discounted production cost for one factory.
// DiscountRate is a percentage (15 means 15%).
type CostEstimate struct {
	UnitCost           float64 `json:"unitCost"`
	DiscountRate       float64 `json:"discountRate"`
	DiscountedUnitCost int64   `json:"discountedUnitCost"`
	TotalCost          int64   `json:"totalCost"`
	SetupFee           int64   `json:"setupFee"`
}

// LeadTimeEstimate carries the standard lead time and, for urgent requests,
// the expedited alternative.
type LeadTimeEstimate struct {
	Standard    int   `json:"standard"`
	Expedited   *int  `json:"expedited"`
	ExpediteFee int64 `json:"expediteFee"`
}

// MatchResult is one scored, estimated and annotated candidate.
type MatchResult struct {
	Factory           Factory          `json:"factory"`
	MatchScore        float64          `json:"matchScore"`
	ScoreBreakdown    ScoreBreakdown   `json:"scoreBreakdown"`
	EstimatedCost     CostEstimate     `json:"estimatedCost"`
	EstimatedLeadTime LeadTimeEstimate `json:"estimatedLeadTime"`
	MatchReasons      []string         `json:"matchReasons"`
	Warnings          []string         `json:"warnings"`
}

// Summary sources.
const (
	SummarySourceAI       = "ai"
	SummarySourceFallback = "fallback"
	SummarySourceNoMatch  = "no_match"
)

// AIRecommendation is the natural-language summary attached to a result.
type AIRecommendation struct {
	Recommendation string `json:"recommendation"`
	Source         string `json:"source"`
}

// RecommendationResult is the full response to a MatchRequest.
type RecommendationResult struct {
	TotalCandidates  int              `json:"totalCandidates"`
	TopMatches       []MatchResult    `json:"topMatches"`
	AIRecommendation AIRecommendation `json:"aiRecommendation"`
	SearchCriteria   MatchRequest     `json:"searchCriteria"`
}

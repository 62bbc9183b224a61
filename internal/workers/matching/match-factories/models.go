// internal/workers/matching/match-factories/models.go
package matchfactories

import "factory-matching/internal/models"

// Input is the matching request carried in the process variables.
type Input struct {
	models.MatchRequest
}

type Output struct {
	Recommendation  *models.RecommendationResult `json:"recommendation"`
	TotalCandidates int                          `json:"totalCandidates"`
	HasMatches      bool                         `json:"hasMatches"`
	TopFactoryID    string                       `json:"topFactoryId,omitempty"`
	TopMatchScore   float64                      `json:"topMatchScore,omitempty"`
}

// internal/workers/matching/recommendation-synthesis/models.go
package recommendationsynthesis

import "factory-matching/internal/models"

type Input struct {
	TopMatches     []models.MatchResult `json:"topMatches"`
	SearchCriteria models.MatchRequest  `json:"searchCriteria"`
}

type Output struct {
	AIRecommendation models.AIRecommendation `json:"aiRecommendation"`
}

// internal/workers/matching/calculate-match-score/models.go
package calculatematchscore

import "factory-matching/internal/models"

type Input struct {
	Factory models.Factory      `json:"factory"`
	Request models.MatchRequest `json:"request"`
	// AverageCost is the mean base unit cost of the candidate set the factory
	// is compared against. Zero scores the factory against itself.
	AverageCost float64 `json:"averageCost,omitempty"`
}

type Output struct {
	FactoryID         string                  `json:"factoryId"`
	MatchScore        float64                 `json:"matchScore"`
	ScoreBreakdown    models.ScoreBreakdown   `json:"scoreBreakdown"`
	EstimatedCost     models.CostEstimate     `json:"estimatedCost"`
	EstimatedLeadTime models.LeadTimeEstimate `json:"estimatedLeadTime"`
	MatchReasons      []string                `json:"matchReasons"`
	Warnings          []string                `json:"warnings"`
}

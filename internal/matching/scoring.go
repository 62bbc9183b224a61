package matching

import (
	"math"
	"strings"

	"factory-matching/internal/models"
)

// Score weights.
const (
	SpecialtyMatchPoints   = 30.0
	SpecialtyPartialPoints = 15.0

	RatingMaxPoints = 20.0
	maxRating       = 5.0

	ExperienceMaxPoints = 15.0
	experienceCap       = 200.0

	PriceCompetitivePoints = 15.0
	PriceStandardPoints    = 10.0

	LeadTimeFastPoints       = 10.0
	LeadTimeUrgentSlowPoints = 5.0
	LeadTimeSlowPoints       = 7.0
	urgentLeadTimeDays       = 10
	standardLeadTimeDays     = 14

	RegionMatchPoints   = 10.0
	RegionDefaultPoints = 5.0
)

// AverageCost is the mean base unit cost of the population being scored.
func AverageCost(factories []models.Factory) float64 {
	if len(factories) == 0 {
		return 0
	}
	var sum float64
	for _, f := range factories {
		sum += f.BaseCostPerUnit
	}
	return sum / float64(len(factories))
}

// Score computes the weighted breakdown for one candidate. avgCost is the mean
// base cost of the filtered population for this request.
func Score(f models.Factory, req models.MatchRequest, avgCost float64) models.ScoreBreakdown {
	b := models.ScoreBreakdown{
		Specialty:  SpecialtyPartialPoints,
		Rating:     f.Rating / maxRating * RatingMaxPoints,
		Experience: math.Min(float64(f.SuccessfulProjects)/experienceCap*ExperienceMaxPoints, ExperienceMaxPoints),
		Price:      PriceStandardPoints,
		Region:     RegionDefaultPoints,
	}

	if specialtyMatches(f.Specialties, req.RecipeCategory) {
		b.Specialty = SpecialtyMatchPoints
	}

	if f.BaseCostPerUnit <= avgCost {
		b.Price = PriceCompetitivePoints
	}

	b.LeadTime = leadTimePoints(f.LeadTime, req.Urgency)

	if req.PreferredRegion != "" && req.PreferredRegion == f.Region {
		b.Region = RegionMatchPoints
	}

	return b
}

// specialtyMatches compares case-insensitively with substring overlap in either direction.
func specialtyMatches(specialties []string, category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return false
	}
	for _, s := range specialties {
		tag := strings.ToLower(strings.TrimSpace(s))
		if tag == "" {
			continue
		}
		if strings.Contains(tag, c) || strings.Contains(c, tag) {
			return true
		}
	}
	return false
}

func leadTimePoints(days int, urgency models.Urgency) float64 {
	if urgency == models.UrgencyUrgent {
		if days <= urgentLeadTimeDays {
			return LeadTimeFastPoints
		}
		return LeadTimeUrgentSlowPoints
	}
	if days <= standardLeadTimeDays {
		return LeadTimeFastPoints
	}
	return LeadTimeSlowPoints
}

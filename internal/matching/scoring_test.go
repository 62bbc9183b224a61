package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"factory-matching/internal/models"
)

func TestScore_Criteria(t *testing.T) {
	base := testFactory("f-1", ramenLine()...)

	tests := []struct {
		name     string
		mutate   func(f *models.Factory)
		request  models.MatchRequest
		avgCost  float64
		validate func(t *testing.T, b models.ScoreBreakdown)
	}{
		{
			name:    "specialty substring match in either direction",
			request: models.MatchRequest{RecipeCategory: "Noodle"},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, SpecialtyMatchPoints, b.Specialty)
			},
		},
		{
			name:    "category containing the tag matches",
			mutate:  func(f *models.Factory) { f.Specialties = []string{"soup"} },
			request: models.MatchRequest{RecipeCategory: "soup-kits"},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, SpecialtyMatchPoints, b.Specialty)
			},
		},
		{
			name:    "specialty mismatch gets partial credit",
			request: models.MatchRequest{RecipeCategory: "meat"},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, SpecialtyPartialPoints, b.Specialty)
			},
		},
		{
			name:    "empty specialty tags never match",
			mutate:  func(f *models.Factory) { f.Specialties = []string{"", "  "} },
			request: models.MatchRequest{RecipeCategory: "meat"},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, SpecialtyPartialPoints, b.Specialty)
			},
		},
		{
			name:    "rating is linear",
			mutate:  func(f *models.Factory) { f.Rating = 4.8 },
			request: models.MatchRequest{RecipeCategory: "meat"},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.InDelta(t, 19.2, b.Rating, 1e-9)
			},
		},
		{
			name:    "experience is capped at 200 projects",
			mutate:  func(f *models.Factory) { f.SuccessfulProjects = 450 },
			request: models.MatchRequest{RecipeCategory: "meat"},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, ExperienceMaxPoints, b.Experience)
			},
		},
		{
			name:    "experience is linear below the cap",
			mutate:  func(f *models.Factory) { f.SuccessfulProjects = 127 },
			request: models.MatchRequest{RecipeCategory: "meat"},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.InDelta(t, 9.525, b.Experience, 1e-9)
			},
		},
		{
			name:    "cost at the mean is competitive",
			request: models.MatchRequest{RecipeCategory: "meat"},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, PriceCompetitivePoints, b.Price)
			},
		},
		{
			name:    "cost above the mean is standard",
			request: models.MatchRequest{RecipeCategory: "meat"},
			avgCost: 999.99,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, PriceStandardPoints, b.Price)
			},
		},
		{
			name:    "urgent with slow lead time",
			mutate:  func(f *models.Factory) { f.LeadTime = 11 },
			request: models.MatchRequest{RecipeCategory: "meat", Urgency: models.UrgencyUrgent},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, LeadTimeUrgentSlowPoints, b.LeadTime)
			},
		},
		{
			name:    "normal with 14 day lead time is fast",
			mutate:  func(f *models.Factory) { f.LeadTime = 14 },
			request: models.MatchRequest{RecipeCategory: "meat", Urgency: models.UrgencyNormal},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, LeadTimeFastPoints, b.LeadTime)
			},
		},
		{
			name:    "flexible with slow lead time",
			mutate:  func(f *models.Factory) { f.LeadTime = 21 },
			request: models.MatchRequest{RecipeCategory: "meat", Urgency: models.UrgencyFlexible},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, LeadTimeSlowPoints, b.LeadTime)
			},
		},
		{
			name:    "region exact match",
			request: models.MatchRequest{RecipeCategory: "meat", PreferredRegion: "Gyeonggi"},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, RegionMatchPoints, b.Region)
			},
		},
		{
			name:    "region comparison is exact",
			request: models.MatchRequest{RecipeCategory: "meat", PreferredRegion: "gyeonggi"},
			avgCost: 1000,
			validate: func(t *testing.T, b models.ScoreBreakdown) {
				assert.Equal(t, RegionDefaultPoints, b.Region)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base.Clone()
			if tt.mutate != nil {
				tt.mutate(&f)
			}
			tt.validate(t, Score(f, tt.request, tt.avgCost))
		})
	}
}

func TestScore_MaximumIs100(t *testing.T) {
	f := testFactory("best", ramenLine()...)
	f.Rating = 5
	f.SuccessfulProjects = 200
	f.LeadTime = 5

	b := Score(f, models.MatchRequest{RecipeCategory: "noodle", PreferredRegion: "Gyeonggi", Urgency: models.UrgencyUrgent}, 1000)
	assert.InDelta(t, 100.0, b.Total(), 1e-9)
}

func TestScore_IsPure(t *testing.T) {
	f := testFactory("f-1", ramenLine()...)
	req := models.MatchRequest{RecipeCategory: "noodle", Urgency: models.UrgencyNormal}

	assert.Equal(t, Score(f, req, 1000), Score(f, req, 1000))
}

func TestAverageCost(t *testing.T) {
	assert.Equal(t, 0.0, AverageCost(nil))
	assert.InDelta(t, 1080.0, AverageCost(DefaultCatalog()), 1e-9)
}

package matching

import (
	"context"
	"fmt"
	"time"

	"factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/metrics"
	"factory-matching/internal/models"
)

// Service validates requests, snapshots the catalogue and runs the composer.
type Service struct {
	source   FactorySource
	composer *Composer
	logger   logger.Logger
}

func NewService(source FactorySource, composer *Composer, log logger.Logger) *Service {
	return &Service{
		source:   source,
		composer: composer,
		logger:   logger.ForComponent(log, "matching"),
	}
}

// ValidateRequest normalizes req in place and rejects malformed input.
func ValidateRequest(req *models.MatchRequest) error {
	req.Normalize()

	if req.RecipeCategory == "" {
		return errors.NewInvalidRequestError("recipeCategory is required")
	}
	if req.MonthlyQuantity <= 0 {
		return errors.NewInvalidRequestError("monthlyQuantity must be a positive integer")
	}
	if req.Budget < 0 {
		return errors.NewInvalidRequestError("budget must be positive when given")
	}
	if !req.Urgency.Valid() {
		return errors.NewInvalidRequestError(fmt.Sprintf("urgency %q is not one of normal, urgent, flexible", req.Urgency))
	}
	return nil
}

// Recommend returns the ranked recommendation for req. Invalid requests fail
// with INVALID_REQUEST before the catalogue is read; storage failures and
// internal faults surface as MATCHING_ERROR.
func (s *Service) Recommend(ctx context.Context, req models.MatchRequest) (result *models.RecommendationResult, err error) {
	start := time.Now()
	defer func() {
		metrics.MatchingDuration.Observe(time.Since(start).Seconds())
	}()

	if err := ValidateRequest(&req); err != nil {
		metrics.MatchingRequests.WithLabelValues("invalid").Inc()
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Factory matching panicked", map[string]interface{}{
				"panic":    fmt.Sprint(r),
				"criteria": req,
			})
			metrics.MatchingRequests.WithLabelValues("error").Inc()
			result, err = nil, errors.NewMatchingError(fmt.Errorf("panic: %v", r))
		}
	}()

	registry, err := LoadRegistry(ctx, s.source)
	if err != nil {
		s.logger.Error("Failed to load factory catalogue", map[string]interface{}{
			"error":    err.Error(),
			"criteria": req,
		})
		metrics.MatchingRequests.WithLabelValues("error").Inc()
		return nil, errors.NewMatchingError(err)
	}

	result = s.composer.Recommend(ctx, req, registry)

	outcome := "matched"
	if result.TotalCandidates == 0 {
		outcome = "no_match"
	}
	metrics.MatchingRequests.WithLabelValues(outcome).Inc()

	s.logger.Info("Factory matching completed", map[string]interface{}{
		"category":        req.RecipeCategory,
		"quantity":        req.MonthlyQuantity,
		"totalCandidates": result.TotalCandidates,
		"returned":        len(result.TopMatches),
		"summarySource":   result.AIRecommendation.Source,
	})

	return result, nil
}

// Factory fetches one factory from the underlying source.
func (s *Service) Factory(ctx context.Context, id string) (*models.Factory, error) {
	registry, err := LoadRegistry(ctx, s.source)
	if err != nil {
		return nil, errors.NewRepositoryError("list_factories", err)
	}
	for _, f := range registry.ListAll() {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, errors.NewFactoryNotFoundError(id)
}

// Factories lists the active catalogue.
func (s *Service) Factories(ctx context.Context) ([]models.Factory, error) {
	registry, err := LoadRegistry(ctx, s.source)
	if err != nil {
		return nil, errors.NewRepositoryError("list_factories", err)
	}
	return registry.ListAll(), nil
}

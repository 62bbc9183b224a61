// internal/workers/matching/match-factories/handler.go
package matchfactories

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"factory-matching/internal/common/camunda"
	"factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/validation"
	"factory-matching/internal/models"
)

const TaskType = "match-factories"

// Recommender is satisfied by matching.Service.
type Recommender interface {
	Recommend(ctx context.Context, req models.MatchRequest) (*models.RecommendationResult, error)
}

// RecommendationRecorder is optionally implemented by the job recorder.
type RecommendationRecorder interface {
	RecordRecommendation(ctx context.Context, source string, candidates int)
}

type Dependencies struct {
	Matcher  Recommender
	Recorder camunda.JobRecorder
}

type Handler struct {
	config          *Config
	matcher         Recommender
	recommendations RecommendationRecorder
	runner          *camunda.JobRunner
	logger          logger.Logger
}

func NewHandler(cfg *Config, deps Dependencies, log logger.Logger) *Handler {
	h := &Handler{
		config:  cfg,
		matcher: deps.Matcher,
		runner:  camunda.NewJobRunner(TaskType, cfg.Timeout, log).WithRecorder(deps.Recorder),
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
	if rec, ok := deps.Recorder.(RecommendationRecorder); ok {
		h.recommendations = rec
	}
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context, variables string) (interface{}, error) {
		input, err := h.parseInput(variables)
		if err != nil {
			return nil, err
		}
		return h.Execute(ctx, input)
	})
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	result, err := validation.ValidateJSON(validation.SchemaMatchRequest, []byte(variables))
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, errors.NewInvalidRequestError(result.Error())
	}

	var input Input
	if err := camunda.Decode(variables, &input, errors.NewInvalidRequestError); err != nil {
		return nil, err
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.matcher.Recommend(ctx, input.MatchRequest)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Recommendation:  result,
		TotalCandidates: result.TotalCandidates,
		HasMatches:      len(result.TopMatches) > 0,
	}
	if output.HasMatches {
		output.TopFactoryID = result.TopMatches[0].Factory.ID
		output.TopMatchScore = result.TopMatches[0].MatchScore
	}

	if h.recommendations != nil {
		h.recommendations.RecordRecommendation(ctx, result.AIRecommendation.Source, result.TotalCandidates)
	}

	h.logger.Info("Factories matched", map[string]interface{}{
		"category":        input.RecipeCategory,
		"totalCandidates": output.TotalCandidates,
		"topFactoryId":    output.TopFactoryID,
	})
	return output, nil
}

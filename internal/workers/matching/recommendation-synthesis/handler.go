// internal/workers/matching/recommendation-synthesis/handler.go
package recommendationsynthesis

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"factory-matching/internal/common/camunda"
	"factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/models"
)

const TaskType = "recommendation-synthesis"

// Summarizer is satisfied by matching.Composer.
type Summarizer interface {
	Summarize(ctx context.Context, top []models.MatchResult, req models.MatchRequest) models.AIRecommendation
}

type Dependencies struct {
	Summarizer Summarizer
	Recorder   camunda.JobRecorder
}

type Handler struct {
	config     *Config
	summarizer Summarizer
	runner     *camunda.JobRunner
	logger     logger.Logger
}

func NewHandler(cfg *Config, deps Dependencies, log logger.Logger) *Handler {
	return &Handler{
		config:     cfg,
		summarizer: deps.Summarizer,
		runner:     camunda.NewJobRunner(TaskType, cfg.Timeout, log).WithRecorder(deps.Recorder),
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context, variables string) (interface{}, error) {
		var input Input
		if err := camunda.Decode(variables, &input, errors.NewInvalidRequestError); err != nil {
			return nil, err
		}
		return h.Execute(ctx, &input)
	})
}

// Execute never fails: generator problems yield the template sentence.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	req := input.SearchCriteria
	req.Normalize()

	rec := h.summarizer.Summarize(ctx, input.TopMatches, req)

	h.logger.Info("Recommendation synthesized", map[string]interface{}{
		"matches": len(input.TopMatches),
		"source":  rec.Source,
	})
	return &Output{AIRecommendation: rec}, nil
}

// internal/workers/matching/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"factory-matching/internal/common/camunda"
	"factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/validation"
	"factory-matching/internal/matching"
	"factory-matching/internal/models"
)

const TaskType = "calculate-match-score"

type Handler struct {
	config *Config
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(cfg *Config, recorder camunda.JobRecorder, log logger.Logger) *Handler {
	return &Handler{
		config: cfg,
		runner: camunda.NewJobRunner(TaskType, cfg.Timeout, log).WithRecorder(recorder),
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
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
	result, err := validation.ValidateJSON(validation.SchemaMatchScoreInput, []byte(variables))
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

// Execute scores a single factory. It is pure: no catalogue lookup happens.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	req := input.Request
	if err := matching.ValidateRequest(&req); err != nil {
		return nil, err
	}

	avgCost := input.AverageCost
	if avgCost <= 0 {
		avgCost = matching.AverageCost([]models.Factory{input.Factory})
	}

	f := input.Factory
	breakdown := matching.Score(f, req, avgCost)

	output := &Output{
		FactoryID:         f.ID,
		MatchScore:        breakdown.Total(),
		ScoreBreakdown:    breakdown,
		EstimatedCost:     matching.EstimateCost(f, req.MonthlyQuantity),
		EstimatedLeadTime: matching.EstimateLeadTime(f, req.Urgency),
		MatchReasons:      matching.MatchReasons(f, breakdown),
		Warnings:          matching.Warnings(f, req),
	}

	h.logger.Info("Match score calculated", map[string]interface{}{
		"factoryId": f.ID,
		"score":     output.MatchScore,
		"breakdown": breakdown,
	})
	return output, nil
}

// internal/workers/consultation/create-consultation/handler.go
package createconsultation

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"factory-matching/internal/common/camunda"
	"factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/validation"
	"factory-matching/internal/models"
)

const TaskType = "create-consultation"

// Registrar stores a consultation without notifying; notifications are a
// separate task in the process.
type Registrar interface {
	Register(ctx context.Context, req *models.ConsultationRequest) (*models.Consultation, error)
}

type Dependencies struct {
	Consultations Registrar
	Recorder      camunda.JobRecorder
}

type Handler struct {
	config        *Config
	consultations Registrar
	runner        *camunda.JobRunner
	logger        logger.Logger
}

func NewHandler(cfg *Config, deps Dependencies, log logger.Logger) *Handler {
	return &Handler{
		config:        cfg,
		consultations: deps.Consultations,
		runner:        camunda.NewJobRunner(TaskType, cfg.Timeout, log).WithRecorder(deps.Recorder),
		logger:        log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
	result, err := validation.ValidateJSON(validation.SchemaConsultationRequest, []byte(variables))
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, errors.NewConsultationValidationError(result.Error())
	}

	var input Input
	if err := camunda.Decode(variables, &input, errors.NewConsultationValidationError); err != nil {
		return nil, err
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	c, err := h.consultations.Register(ctx, &input.ConsultationRequest)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Consultation record created", map[string]interface{}{
		"consultationId": c.ID,
		"projectType":    c.ProjectType,
	})

	return &Output{
		ConsultationID:     c.ID,
		ConsultationStatus: c.Status,
		ProjectType:        c.ProjectType,
		ApplicantPhone:     c.Applicant.Phone,
		CreatedAt:          c.CreatedAt.Format(time.RFC3339),
	}, nil
}

// internal/workers/consultation/send-consultation-notification/handler.go
package sendconsultationnotification

import (
	"context"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"factory-matching/internal/common/camunda"
	"factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/consultation"
	"factory-matching/internal/models"
)

const TaskType = "send-consultation-notification"

// Announcer is satisfied by consultation.Service.
type Announcer interface {
	Get(ctx context.Context, id string) (*models.Consultation, error)
	NotifyNew(ctx context.Context, c *models.Consultation) []consultation.Delivery
	NotifyStatus(ctx context.Context, c *models.Consultation, status models.ConsultationStatus) []consultation.Delivery
}

type Dependencies struct {
	Consultations Announcer
	Recorder      camunda.JobRecorder
}

type Handler struct {
	config        *Config
	consultations Announcer
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
		var input Input
		if err := camunda.Decode(variables, &input, errors.NewInvalidRequestError); err != nil {
			return nil, err
		}
		return h.Execute(ctx, &input)
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.ConsultationID) == "" {
		return nil, errors.NewInvalidRequestError("consultationId is required")
	}

	c, err := h.consultations.Get(ctx, input.ConsultationID)
	if err != nil {
		return nil, err
	}

	var deliveries []consultation.Delivery
	switch input.Event {
	case "", EventNewConsultation:
		deliveries = h.consultations.NotifyNew(ctx, c)
	case EventStatusChanged:
		status := input.Status
		if status == "" {
			status = c.Status
		}
		deliveries = h.consultations.NotifyStatus(ctx, c, status)
	default:
		return nil, errors.NewInvalidRequestError(fmt.Sprintf("unknown notification event %q", input.Event))
	}

	output := &Output{Deliveries: deliveries}
	if output.Deliveries == nil {
		output.Deliveries = []consultation.Delivery{}
	}
	var lastErr string
	for _, d := range deliveries {
		switch d.Status {
		case consultation.StatusSent:
			output.NotificationsSent++
		case consultation.StatusFailed:
			output.NotificationsFailed++
			lastErr = d.Channel + ": " + d.Error
		}
	}

	h.logger.Info("Consultation notifications processed", map[string]interface{}{
		"consultationId": c.ID,
		"event":          input.Event,
		"sent":           output.NotificationsSent,
		"failed":         output.NotificationsFailed,
	})

	// fail only when no channel delivered
	if h.config.FailWhenUndelivered && output.NotificationsSent == 0 && output.NotificationsFailed > 0 {
		return nil, errors.NewNotificationSendFailedError("consultation", fmt.Errorf("%s", lastErr))
	}
	return output, nil
}

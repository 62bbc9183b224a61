// internal/workers/consultation/sync-crm-lead/handler.go
package synccrmlead

import (
	"context"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"factory-matching/internal/common/camunda"
	"factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/zoho"
	"factory-matching/internal/consultation"
	"factory-matching/internal/models"
)

const (
	TaskType    = "sync-crm-lead"
	crmProvider = "zoho"
)

type ConsultationGetter interface {
	Get(ctx context.Context, id string) (*models.Consultation, error)
}

// LeadSyncer is satisfied by zoho.CRMClient.
type LeadSyncer interface {
	UpsertLead(ctx context.Context, lead *zoho.Lead) (string, bool, error)
}

type Dependencies struct {
	Consultations ConsultationGetter
	CRM           LeadSyncer
	Recorder      camunda.JobRecorder
}

type Handler struct {
	config        *Config
	consultations ConsultationGetter
	crm           LeadSyncer
	runner        *camunda.JobRunner
	logger        logger.Logger
}

func NewHandler(cfg *Config, deps Dependencies, log logger.Logger) *Handler {
	return &Handler{
		config:        cfg,
		consultations: deps.Consultations,
		crm:           deps.CRM,
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
	if !h.config.Enabled || h.crm == nil {
		h.logger.Info("CRM sync disabled by configuration", nil)
		return &Output{CRMMessage: "CRM sync disabled"}, nil
	}
	if strings.TrimSpace(input.ConsultationID) == "" {
		return nil, errors.NewInvalidRequestError("consultationId is required")
	}

	c, err := h.consultations.Get(ctx, input.ConsultationID)
	if err != nil {
		return nil, err
	}

	leadID, created, err := h.crm.UpsertLead(ctx, h.leadFrom(c))
	if err != nil {
		return nil, errors.NewCRMSyncFailedError(err)
	}

	message := "Lead updated"
	if created {
		message = "Lead created"
	}
	h.logger.Info("Consultation synced to CRM", map[string]interface{}{
		"consultationId": c.ID,
		"leadId":         leadID,
		"created":        created,
	})

	return &Output{
		CRMSynced:   true,
		CRMProvider: crmProvider,
		CRMLeadID:   leadID,
		CRMCreated:  created,
		CRMMessage:  message,
	}, nil
}

func (h *Handler) leadFrom(c *models.Consultation) *zoho.Lead {
	company := c.Applicant.Company
	if company == "" {
		// Zoho requires a company on leads
		company = c.Applicant.Name
	}

	var desc strings.Builder
	desc.WriteString(consultation.ProjectTypeName(c.ProjectType))
	for _, part := range []struct{ label, value string }{
		{"Budget", c.Budget},
		{"Timeline", c.Timeline},
		{"Preferred contact time", c.PreferredContactTime},
		{"Referral", c.ReferralSource},
	} {
		if part.value != "" {
			desc.WriteString("\n" + part.label + ": " + part.value)
		}
	}
	if c.Description != "" {
		desc.WriteString("\n\n" + c.Description)
	}

	return &zoho.Lead{
		LastName:    c.Applicant.Name,
		Company:     company,
		Phone:       c.Applicant.Phone,
		Email:       c.Applicant.Email,
		Designation: c.Applicant.Position,
		LeadSource:  h.config.LeadSource,
		LeadStatus:  string(c.Status),
		Description: desc.String(),
		ExternalID:  c.ID,
	}
}

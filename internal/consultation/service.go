// Package consultation handles lead intake for consulting projects.
package consultation

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/metrics"
	"factory-matching/internal/models"
	"factory-matching/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Service creates and manages consultations.
type Service struct {
	repo     repository.ConsultationRepository
	notifier Notifier
	logger   logger.Logger
	now      func() time.Time
}

// NewService builds the service. A nil notifier disables notifications.
func NewService(repo repository.ConsultationRepository, notifier Notifier, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger.ForComponent(log, "consultation"),
		now:      time.Now,
	}
}

// Register validates and stores a new consultation without notifying anyone.
func (s *Service) Register(ctx context.Context, req *models.ConsultationRequest) (*models.Consultation, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	projectType := req.ProjectType
	if projectType == "" {
		projectType = models.DefaultProjectType
	}

	now := s.now().UTC()
	c := models.Consultation{
		ID: "consult-" + shortID(10),
		Applicant: models.Applicant{
			Name:     strings.TrimSpace(req.Name),
			Company:  req.Company,
			Phone:    FormatPhone(req.Phone),
			Email:    req.Email,
			Position: req.Position,
		},
		ProjectType:          projectType,
		Description:          req.Description,
		Budget:               req.Budget,
		Timeline:             req.Timeline,
		ReferralSource:       req.ReferralSource,
		PreferredContactTime: req.PreferredContactTime,
		Status:               models.ConsultationPending,
		Notes:                []models.ConsultationNote{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, apperrors.NewRepositoryError("save consultation", err)
	}

	metrics.ConsultationsCreated.WithLabelValues(projectType).Inc()
	s.logger.Info("Consultation created", map[string]interface{}{
		"consultationId": c.ID,
		"projectType":    projectType,
	})
	return &c, nil
}

// Create registers the consultation and notifies staff. Notification failures
// are logged and do not fail the request.
func (s *Service) Create(ctx context.Context, req *models.ConsultationRequest) (*models.Consultation, error) {
	c, err := s.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	s.NotifyNew(ctx, c)
	return c, nil
}

// NotifyNew announces a stored consultation.
func (s *Service) NotifyNew(ctx context.Context, c *models.Consultation) []Delivery {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.NewConsultation(ctx, c)
}

// NotifyStatus sends the applicant status message for status, if it has one.
func (s *Service) NotifyStatus(ctx context.Context, c *models.Consultation, status models.ConsultationStatus) []Delivery {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.StatusChanged(ctx, c, status)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Consultation, error) {
	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewConsultationNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewRepositoryError("get consultation", err)
	}
	return c, nil
}

// List filters by status and project type, orders newest first and paginates.
func (s *Service) List(ctx context.Context, filter models.ConsultationFilter) (*models.ConsultationPage, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewRepositoryError("list consultations", err)
	}

	matched := make([]models.Consultation, 0, len(all))
	for _, c := range all {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ProjectType != "" && c.ProjectType != filter.ProjectType {
			continue
		}
		matched = append(matched, c)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return &models.ConsultationPage{
		Items: matched[start:end],
		Meta: models.PageMeta{
			Total:      len(matched),
			Page:       page,
			Limit:      limit,
			TotalPages: (len(matched) + limit - 1) / limit,
		},
	}, nil
}

// Update applies the allowed field changes, appends a note when requested and
// texts the applicant when the status moves to one with a customer-facing message.
func (s *Service) Update(ctx context.Context, id string, upd *models.ConsultationUpdate) (*models.Consultation, error) {
	if upd.Status != nil && !validStatus(*upd.Status) {
		return nil, apperrors.NewConsultationValidationError("unknown status " + string(*upd.Status))
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := c.Status
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	if upd.AssignedTo != nil {
		c.AssignedTo = *upd.AssignedTo
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Budget != nil {
		c.Budget = *upd.Budget
	}
	if upd.Timeline != nil {
		c.Timeline = *upd.Timeline
	}

	now := s.now().UTC()
	if strings.TrimSpace(upd.AddNote) != "" {
		createdBy := upd.CreatedBy
		if createdBy == "" {
			createdBy = "system"
		}
		c.Notes = append(c.Notes, models.ConsultationNote{
			ID:        "note-" + shortID(8),
			Content:   upd.AddNote,
			CreatedBy: createdBy,
			CreatedAt: now,
		})
	}
	if c.Notes == nil {
		c.Notes = []models.ConsultationNote{}
	}
	c.UpdatedAt = now

	if err := s.repo.Save(ctx, *c); err != nil {
		return nil, apperrors.NewRepositoryError("save consultation", err)
	}

	if c.Status != previous {
		s.logger.Info("Consultation status changed", map[string]interface{}{
			"consultationId": c.ID,
			"from":           string(previous),
			"to":             string(c.Status),
		})
		if s.notifier != nil {
			s.notifier.StatusChanged(ctx, c, c.Status)
		}
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewConsultationNotFoundError(id)
	}
	if err != nil {
		return apperrors.NewRepositoryError("delete consultation", err)
	}
	s.logger.Info("Consultation deleted", map[string]interface{}{"consultationId": id})
	return nil
}

// shortID returns n lowercase hex characters from a random UUID.
func shortID(n int) string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:n]
}

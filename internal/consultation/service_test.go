package consultation

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/models"
	"factory-matching/internal/repository"
)

type recordingNotifier struct {
	mu       sync.Mutex
	created  []string
	statuses []models.ConsultationStatus
}

func (r *recordingNotifier) NewConsultation(_ context.Context, c *models.Consultation) []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, c.ID)
	return []Delivery{{Channel: ChannelSlack, Status: StatusSent}}
}

func (r *recordingNotifier) StatusChanged(_ context.Context, _ *models.Consultation, status models.ConsultationStatus) []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
	return nil
}

type failingRepo struct {
	repository.ConsultationRepository
}

func (failingRepo) Save(context.Context, models.Consultation) error { return errors.New("disk full") }
func (failingRepo) List(context.Context) ([]models.Consultation, error) {
	return nil, errors.New("disk full")
}

func newTestService(t *testing.T) (*Service, *recordingNotifier) {
	n := &recordingNotifier{}
	svc := NewService(repository.NewMemoryStore().Consultations(), n, logger.NewTestLogger(t))
	return svc, n
}

func intake(name string) *models.ConsultationRequest {
	return &models.ConsultationRequest{
		Name:        name,
		Phone:       "01012345678",
		Company:     "Hansik Co",
		Description: "Frozen dumpling line",
	}
}

func TestService_Create(t *testing.T) {
	svc, n := newTestService(t)

	c, err := svc.Create(context.Background(), intake("  Kim Minsu "))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^consult-[0-9a-f]{10}$`), c.ID)
	assert.Equal(t, "Kim Minsu", c.Applicant.Name)
	assert.Equal(t, "010-1234-5678", c.Applicant.Phone)
	assert.Equal(t, models.DefaultProjectType, c.ProjectType)
	assert.Equal(t, models.ConsultationPending, c.Status)
	assert.NotNil(t, c.Notes)
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
	assert.Equal(t, []string{c.ID}, n.created)

	stored, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Applicant, stored.Applicant)
}

func TestService_RegisterDoesNotNotify(t *testing.T) {
	svc, n := newTestService(t)

	_, err := svc.Register(context.Background(), intake("Kim"))
	require.NoError(t, err)
	assert.Empty(t, n.created)
}

func TestService_CreateErrors(t *testing.T) {
	svc, n := newTestService(t)

	_, err := svc.Create(context.Background(), &models.ConsultationRequest{Name: "K", Phone: "01012345678"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConsultationValidationFailed))
	assert.Empty(t, n.created)

	broken := NewService(failingRepo{}, n, logger.NewNoOpLogger())
	_, err = broken.Create(context.Background(), intake("Kim"))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRepositoryError))
	assert.Empty(t, n.created)
}

func TestService_List(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	var ids []string
	for i := 0; i < 5; i++ {
		req := intake("Applicant")
		if i%2 == 0 {
			req.ProjectType = "factory_matching"
		}
		c, err := svc.Create(ctx, req)
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	contacted := models.ConsultationContacted
	_, err := svc.Update(ctx, ids[0], &models.ConsultationUpdate{Status: &contacted})
	require.NoError(t, err)

	tests := []struct {
		name      string
		filter    models.ConsultationFilter
		wantIDs   []string
		wantTotal int
		wantPages int
	}{
		{
			name:      "defaults newest first",
			filter:    models.ConsultationFilter{},
			wantIDs:   []string{ids[4], ids[3], ids[2], ids[1], ids[0]},
			wantTotal: 5,
			wantPages: 1,
		},
		{
			name:      "second page of two",
			filter:    models.ConsultationFilter{Page: 2, Limit: 2},
			wantIDs:   []string{ids[2], ids[1]},
			wantTotal: 5,
			wantPages: 3,
		},
		{
			name:      "page past the end",
			filter:    models.ConsultationFilter{Page: 9, Limit: 2},
			wantIDs:   []string{},
			wantTotal: 5,
			wantPages: 3,
		},
		{
			name:      "project type",
			filter:    models.ConsultationFilter{ProjectType: "factory_matching"},
			wantIDs:   []string{ids[4], ids[2], ids[0]},
			wantTotal: 3,
			wantPages: 1,
		},
		{
			name:      "status",
			filter:    models.ConsultationFilter{Status: models.ConsultationContacted},
			wantIDs:   []string{ids[0]},
			wantTotal: 1,
			wantPages: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)

			got := []string{}
			for _, c := range page.Items {
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
			assert.Equal(t, tt.wantTotal, page.Meta.Total)
			assert.Equal(t, tt.wantPages, page.Meta.TotalPages)
		})
	}

	page, err := svc.List(ctx, models.ConsultationFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page.Meta.Page)
	assert.Equal(t, DefaultLimit, page.Meta.Limit)
}

func TestService_Update(t *testing.T) {
	svc, n := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, intake("Kim"))
	require.NoError(t, err)

	proposal := models.ConsultationProposalSent
	assignee := "park"
	updated, err := svc.Update(ctx, c.ID, &models.ConsultationUpdate{
		Status:     &proposal,
		AssignedTo: &assignee,
		AddNote:    "Sent the retort pouch proposal",
	})
	require.NoError(t, err)

	assert.Equal(t, proposal, updated.Status)
	assert.Equal(t, "park", updated.AssignedTo)
	require.Len(t, updated.Notes, 1)
	assert.Regexp(t, regexp.MustCompile(`^note-[0-9a-f]{8}$`), updated.Notes[0].ID)
	assert.Equal(t, "system", updated.Notes[0].CreatedBy)
	assert.Equal(t, "Frozen dumpling line", updated.Description)
	assert.Equal(t, []models.ConsultationStatus{proposal}, n.statuses)

	// same status again is not a change
	_, err = svc.Update(ctx, c.ID, &models.ConsultationUpdate{Status: &proposal, AddNote: "follow-up", CreatedBy: "lee"})
	require.NoError(t, err)
	assert.Len(t, n.statuses, 1)

	stored, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, stored.Notes, 2)
	assert.Equal(t, "lee", stored.Notes[1].CreatedBy)
}

func TestService_UpdateErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bogus := models.ConsultationStatus("archived")
	_, err := svc.Update(ctx, "consult-x", &models.ConsultationUpdate{Status: &bogus})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConsultationValidationFailed))

	_, err = svc.Update(ctx, "consult-missing", &models.ConsultationUpdate{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConsultationNotFound))
}

func TestService_Delete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, intake("Kim"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.True(t, apperrors.HasCode(svc.Delete(ctx, c.ID), apperrors.ErrCodeConsultationNotFound))

	_, err = svc.Get(ctx, c.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConsultationNotFound))
}

func TestService_ListRepositoryError(t *testing.T) {
	svc := NewService(failingRepo{}, nil, logger.NewNoOpLogger())
	_, err := svc.List(context.Background(), models.ConsultationFilter{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRepositoryError))
}

// internal/workers/consultation/send-consultation-notification/handler_test.go
package sendconsultationnotification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/consultation"
	"factory-matching/internal/models"
	"factory-matching/internal/repository"
)

// ==========================
// Mock SNS
// ==========================

type MockSNSService struct {
	mock.Mock
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sns.PublishOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func setup(t *testing.T, snsClient *MockSNSService) (*Handler, *models.Consultation) {
	log := logger.NewTestLogger(t)
	notifier := consultation.NewChannelNotifier(consultation.NotifierConfig{
		AdminPhone: "010-9999-0000",
		SMSEnabled: true,
	}, nil, snsClient, nil, log)

	svc := consultation.NewService(repository.NewMemoryStore().Consultations(), notifier, log)
	c, err := svc.Register(context.Background(), &models.ConsultationRequest{
		Name:  "Kim Min-su",
		Phone: "01012345678",
	})
	require.NoError(t, err)

	h := NewHandler(&Config{Timeout: 5 * time.Second, FailWhenUndelivered: true}, Dependencies{Consultations: svc}, log)
	return h, c
}

func TestExecute_NewConsultation(t *testing.T) {
	snsClient := &MockSNSService{}
	snsClient.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.PhoneNumber) == "+821099990000"
	})).Return(&sns.PublishOutput{MessageId: aws.String("msg-1")}, nil).Once()

	h, c := setup(t, snsClient)

	output, err := h.Execute(context.Background(), &Input{ConsultationID: c.ID})
	require.NoError(t, err)

	assert.Equal(t, 1, output.NotificationsSent)
	assert.Zero(t, output.NotificationsFailed)
	assert.Len(t, output.Deliveries, 3)
	snsClient.AssertExpectations(t)
}

func TestExecute_StatusChanged(t *testing.T) {
	snsClient := &MockSNSService{}
	snsClient.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.PhoneNumber) == "+821012345678"
	})).Return(&sns.PublishOutput{}, nil).Once()

	h, c := setup(t, snsClient)

	output, err := h.Execute(context.Background(), &Input{
		ConsultationID: c.ID,
		Event:          EventStatusChanged,
		Status:         models.ConsultationContacted,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.NotificationsSent)
	snsClient.AssertExpectations(t)
}

func TestExecute_StatusWithoutMessage(t *testing.T) {
	snsClient := &MockSNSService{}
	h, c := setup(t, snsClient)

	// pending has no applicant-facing message
	output, err := h.Execute(context.Background(), &Input{ConsultationID: c.ID, Event: EventStatusChanged})
	require.NoError(t, err)
	assert.Empty(t, output.Deliveries)
	snsClient.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestExecute_AllChannelsFailed(t *testing.T) {
	snsClient := &MockSNSService{}
	snsClient.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	h, c := setup(t, snsClient)

	_, err := h.Execute(context.Background(), &Input{ConsultationID: c.ID})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotificationSendFailed))

	h.config.FailWhenUndelivered = false
	output, err := h.Execute(context.Background(), &Input{ConsultationID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, output.NotificationsFailed)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		code  apperrors.ErrorCode
	}{
		{"missing id", Input{}, apperrors.ErrCodeInvalidRequest},
		{"unknown consultation", Input{ConsultationID: "consult-missing"}, apperrors.ErrCodeConsultationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setup(t, &MockSNSService{})
			_, err := h.Execute(context.Background(), &tt.input)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}

	t.Run("unknown event", func(t *testing.T) {
		h, c := setup(t, &MockSNSService{})
		_, err := h.Execute(context.Background(), &Input{ConsultationID: c.ID, Event: "reminder"})
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
	})
}

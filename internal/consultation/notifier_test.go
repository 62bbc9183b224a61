package consultation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-matching/internal/common/logger"
	"factory-matching/internal/models"
)

type MockSNSService struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *MockSNSService) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

type MockSESService struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *MockSESService) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

func testConsultation() *models.Consultation {
	return &models.Consultation{
		ID:          "consult-abc1234567",
		Applicant:   models.Applicant{Name: "Kim", Phone: "010-1234-5678", Company: "Hansik Co"},
		ProjectType: "factory_matching",
		Status:      models.ConsultationPending,
	}
}

func allChannels() NotifierConfig {
	return NotifierConfig{
		AdminPhone:   "010-9999-0000",
		AdminEmail:   "ops@example.com",
		FromEmail:    "noreply@example.com",
		EmailEnabled: true,
		SMSEnabled:   true,
		SlackEnabled: true,
	}
}

func statusesByChannel(deliveries []Delivery) map[string]string {
	out := map[string]string{}
	for _, d := range deliveries {
		out[d.Channel] = d.Status
	}
	return out
}

func TestChannelNotifier_NewConsultation(t *testing.T) {
	var posted SlackMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	snsMock := &MockSNSService{}
	sesMock := &MockSESService{}
	n := NewChannelNotifier(allChannels(), NewSlackWebhook(server.URL, nil), snsMock, sesMock, logger.NewTestLogger(t))
	n.now = func() time.Time { return time.Unix(1700000000, 0) }

	deliveries := n.NewConsultation(context.Background(), testConsultation())

	assert.Equal(t, map[string]string{
		ChannelSlack: StatusSent,
		ChannelSMS:   StatusSent,
		ChannelEmail: StatusSent,
	}, statusesByChannel(deliveries))

	require.Len(t, posted.Attachments, 1)
	assert.Equal(t, "Consultation ID: consult-abc1234567", posted.Attachments[0].Footer)
	assert.Equal(t, int64(1700000000), posted.Attachments[0].TS)
	assert.Equal(t, "Factory matching", posted.Attachments[0].Fields[3].Value)
	assert.Equal(t, "-", posted.Attachments[0].Fields[4].Value)

	require.Len(t, snsMock.inputs, 1)
	assert.Equal(t, "+821099990000", *snsMock.inputs[0].PhoneNumber)
	assert.Contains(t, *snsMock.inputs[0].Message, "Applicant: Kim")

	require.Len(t, sesMock.inputs, 1)
	assert.Equal(t, []string{"ops@example.com"}, sesMock.inputs[0].Destination.ToAddresses)
	assert.Equal(t, "New consultation request: Kim", *sesMock.inputs[0].Message.Subject.Data)
}

func TestChannelNotifier_FailuresAreReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	snsMock := &MockSNSService{err: errors.New("opted out")}
	n := NewChannelNotifier(allChannels(), NewSlackWebhook(server.URL, nil), snsMock, nil, logger.NewNoOpLogger())

	deliveries := n.NewConsultation(context.Background(), testConsultation())

	assert.Equal(t, map[string]string{
		ChannelSlack: StatusFailed,
		ChannelSMS:   StatusFailed,
		ChannelEmail: StatusDisabled,
	}, statusesByChannel(deliveries))
	for _, d := range deliveries {
		assert.NotEmpty(t, d.NotificationID)
	}
}

func TestChannelNotifier_StatusChanged(t *testing.T) {
	tests := []struct {
		status   models.ConsultationStatus
		wantSent bool
	}{
		{models.ConsultationContacted, true},
		{models.ConsultationInProgress, true},
		{models.ConsultationProposalSent, true},
		{models.ConsultationContracted, true},
		{models.ConsultationCompleted, true},
		{models.ConsultationCancelled, false},
		{models.ConsultationPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			snsMock := &MockSNSService{}
			n := NewChannelNotifier(allChannels(), nil, snsMock, nil, logger.NewNoOpLogger())

			deliveries := n.StatusChanged(context.Background(), testConsultation(), tt.status)
			if !tt.wantSent {
				assert.Empty(t, deliveries)
				assert.Empty(t, snsMock.inputs)
				return
			}
			require.Len(t, snsMock.inputs, 1)
			assert.Equal(t, "+821012345678", *snsMock.inputs[0].PhoneNumber)
			assert.Contains(t, *snsMock.inputs[0].Message, "Kim, ")
		})
	}
}

func TestChannelNotifier_Disabled(t *testing.T) {
	snsMock := &MockSNSService{}
	n := NewChannelNotifier(NotifierConfig{}, nil, snsMock, &MockSESService{}, logger.NewNoOpLogger())

	for _, d := range n.NewConsultation(context.Background(), testConsultation()) {
		assert.Equal(t, StatusDisabled, d.Status)
	}
	assert.Empty(t, snsMock.inputs)
}

package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"

	awsclient "factory-matching/internal/common/aws"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/metrics"
	"factory-matching/internal/models"
)

// Notification channels.
const (
	ChannelSlack = "slack"
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Delivery statuses.
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const smsPrefix = "[Yoriban]"

var statusMessages = map[models.ConsultationStatus]string{
	models.ConsultationContacted:    "a consultant will contact you shortly.",
	models.ConsultationInProgress:   "your project is now under way.",
	models.ConsultationProposalSent: "your proposal has been sent.",
	models.ConsultationContracted:   "your contract is complete. Thank you!",
	models.ConsultationCompleted:    "your project has been completed successfully.",
}

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SlackPoster posts a webhook message.
type SlackPoster interface {
	Post(ctx context.Context, msg SlackMessage) error
}

// Notifier announces consultation events. Implementations never return errors;
// each channel outcome is reported as a Delivery.
type Notifier interface {
	NewConsultation(ctx context.Context, c *models.Consultation) []Delivery
	StatusChanged(ctx context.Context, c *models.Consultation, status models.ConsultationStatus) []Delivery
}

// Delivery is the outcome of one channel.
type Delivery struct {
	NotificationID string `json:"notificationId"`
	Channel        string `json:"channel"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
	SentAt         string `json:"sentAt"`
}

type NotifierConfig struct {
	AdminPhone   string
	AdminEmail   string
	FromEmail    string
	SMSSenderID  string
	EmailEnabled bool
	SMSEnabled   bool
	SlackEnabled bool
}

// ChannelNotifier sends Slack, SMS (SNS) and email (SES) notifications.
// A nil client disables its channel.
type ChannelNotifier struct {
	config NotifierConfig
	slack  SlackPoster
	sns    SNSService
	ses    SESService
	logger logger.Logger
	now    func() time.Time
}

func NewChannelNotifier(cfg NotifierConfig, slack SlackPoster, snsClient SNSService, sesClient SESService, log logger.Logger) *ChannelNotifier {
	return &ChannelNotifier{
		config: cfg,
		slack:  slack,
		sns:    snsClient,
		ses:    sesClient,
		logger: logger.ForComponent(log, "consultation-notifier"),
		now:    time.Now,
	}
}

// NewConsultation alerts staff about a new lead on every enabled channel.
func (n *ChannelNotifier) NewConsultation(ctx context.Context, c *models.Consultation) []Delivery {
	return []Delivery{
		n.deliver(ChannelSlack, n.slackEnabled(), func() error {
			return n.slack.Post(ctx, newLeadSlackMessage(c, n.now()))
		}),
		n.deliver(ChannelSMS, n.smsEnabled() && n.config.AdminPhone != "", func() error {
			_, err := n.sns.Publish(ctx, awsclient.SMS(n.config.AdminPhone, newLeadSMS(c), n.config.SMSSenderID))
			return err
		}),
		n.deliver(ChannelEmail, n.emailEnabled() && n.config.AdminEmail != "", func() error {
			subject := fmt.Sprintf("New consultation request: %s", c.Applicant.Name)
			_, err := n.ses.SendEmail(ctx, awsclient.TextEmail(n.config.FromEmail, []string{n.config.AdminEmail}, subject, newLeadEmail(c)))
			return err
		}),
	}
}

// StatusChanged texts the applicant when the new status has a customer-facing message.
func (n *ChannelNotifier) StatusChanged(ctx context.Context, c *models.Consultation, status models.ConsultationStatus) []Delivery {
	message, ok := statusMessages[status]
	if !ok {
		return nil
	}
	text := fmt.Sprintf("%s Consultation update\n%s, %s", smsPrefix, c.Applicant.Name, message)
	return []Delivery{
		n.deliver(ChannelSMS, n.smsEnabled(), func() error {
			_, err := n.sns.Publish(ctx, awsclient.SMS(c.Applicant.Phone, text, n.config.SMSSenderID))
			return err
		}),
	}
}

func (n *ChannelNotifier) slackEnabled() bool { return n.config.SlackEnabled && n.slack != nil }
func (n *ChannelNotifier) smsEnabled() bool   { return n.config.SMSEnabled && n.sns != nil }
func (n *ChannelNotifier) emailEnabled() bool {
	return n.config.EmailEnabled && n.ses != nil && n.config.FromEmail != ""
}

func (n *ChannelNotifier) deliver(channel string, enabled bool, send func() error) Delivery {
	d := Delivery{
		NotificationID: uuid.New().String(),
		Channel:        channel,
		Status:         StatusDisabled,
		SentAt:         n.now().UTC().Format(time.RFC3339),
	}
	if !enabled {
		return d
	}

	if err := send(); err != nil {
		d.Status = StatusFailed
		d.Error = err.Error()
		n.logger.Error("Notification send failed", map[string]interface{}{
			"channel": channel,
			"error":   err,
		})
	} else {
		d.Status = StatusSent
	}
	metrics.NotificationsSent.WithLabelValues(channel, d.Status).Inc()
	return d
}

func newLeadSMS(c *models.Consultation) string {
	return strings.Join([]string{
		smsPrefix + " New consultation request",
		"Applicant: " + c.Applicant.Name,
		"Phone: " + c.Applicant.Phone,
		"Type: " + ProjectTypeName(c.ProjectType),
	}, "\n")
}

func newLeadEmail(c *models.Consultation) string {
	return strings.Join([]string{
		"A new consultation request was submitted.",
		"",
		"ID: " + c.ID,
		"Applicant: " + c.Applicant.Name,
		"Company: " + orDash(c.Applicant.Company),
		"Phone: " + c.Applicant.Phone,
		"Email: " + orDash(c.Applicant.Email),
		"Project: " + ProjectTypeName(c.ProjectType),
		"Budget: " + orDash(c.Budget),
		"Timeline: " + orDash(c.Timeline),
		"Preferred contact time: " + orDash(c.PreferredContactTime),
		"",
		orDash(c.Description),
	}, "\n")
}

func newLeadSlackMessage(c *models.Consultation, now time.Time) SlackMessage {
	return SlackMessage{
		Text: "New consultation request",
		Attachments: []SlackAttachment{{
			Color: "#C41E3A",
			Fields: []SlackField{
				{Title: "Applicant", Value: c.Applicant.Name, Short: true},
				{Title: "Phone", Value: c.Applicant.Phone, Short: true},
				{Title: "Company", Value: orDash(c.Applicant.Company), Short: true},
				{Title: "Project", Value: ProjectTypeName(c.ProjectType), Short: true},
				{Title: "Details", Value: orDash(c.Description)},
			},
			Footer: "Consultation ID: " + c.ID,
			TS:     now.Unix(),
		}},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

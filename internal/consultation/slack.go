package consultation

import (
	"context"
	"time"

	httpclient "factory-matching/internal/common/http"
)

// SlackMessage is an incoming-webhook payload.
type SlackMessage struct {
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

type SlackAttachment struct {
	Color  string       `json:"color,omitempty"`
	Fields []SlackField `json:"fields"`
	Footer string       `json:"footer,omitempty"`
	TS     int64        `json:"ts,omitempty"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short,omitempty"`
}

// SlackWebhook posts messages to a Slack incoming webhook.
type SlackWebhook struct {
	url    string
	client *httpclient.Client
}

func NewSlackWebhook(url string, client *httpclient.Client) *SlackWebhook {
	if client == nil {
		client = httpclient.NewClient(10 * time.Second)
	}
	return &SlackWebhook{url: url, client: client}
}

func (s *SlackWebhook) Post(ctx context.Context, msg SlackMessage) error {
	return s.client.PostJSON(ctx, s.url, nil, msg, nil)
}

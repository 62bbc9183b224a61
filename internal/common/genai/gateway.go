// Package genai provides text-generation clients used for recommendation summaries.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "factory-matching/internal/common/errors"
	httpclient "factory-matching/internal/common/http"
)

// Generator produces free text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GatewayConfig configures the internal GenAI HTTP gateway client.
type GatewayConfig struct {
	BaseURL     string
	APIKey      string
	MaxTokens   int
	Temperature float64
	MaxRetries  int
	Timeout     time.Duration
}

// GatewayClient calls POST {base}/api/ai/generate.
type GatewayClient struct {
	config *GatewayConfig
	client *httpclient.Client
}

type generateRequest struct {
	Prompt      string                 `json:"prompt"`
	Context     map[string]interface{} `json:"context,omitempty"`
	MaxTokens   int                    `json:"max_tokens"`
	Temperature float64                `json:"temperature"`
}

type generateResponse struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

func NewGatewayClient(cfg *GatewayConfig, client *httpclient.Client) *GatewayClient {
	if client == nil {
		client = httpclient.NewClient(cfg.Timeout)
	}
	return &GatewayClient{config: cfg, client: client}
}

// Generate posts the prompt, retrying transport failures and 5xx answers with
// exponential backoff until ctx expires.
func (g *GatewayClient) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Prompt:      prompt,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	headers := map[string]string{}
	if g.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + g.config.APIKey
	}

	url := strings.TrimRight(g.config.BaseURL, "/") + "/api/ai/generate"

	var lastErr error
	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", apperrors.NewTextGenerationTimeoutError()
			}
		}

		var resp generateResponse
		err := g.client.PostJSON(ctx, url, headers, body, &resp)
		if err == nil {
			text := strings.TrimSpace(resp.Text)
			if text == "" {
				return "", apperrors.NewTextGenerationFailedError(errors.New("empty text in response"))
			}
			return text, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return "", apperrors.NewTextGenerationTimeoutError()
		}
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			break
		}
	}

	return "", apperrors.NewTextGenerationFailedError(fmt.Errorf("gateway: %w", lastErr))
}

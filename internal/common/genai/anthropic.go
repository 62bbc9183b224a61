package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	apperrors "factory-matching/internal/common/errors"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// MessagesAPI is the subset of the Anthropic messages service we call.
type MessagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	MaxRetries int
}

// AnthropicClient generates text with the Anthropic Messages API.
type AnthropicClient struct {
	messages  MessagesAPI
	model     string
	maxTokens int64
}

// NewAnthropicClient builds a client backed by the official SDK.
func NewAnthropicClient(cfg *AnthropicConfig) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return NewAnthropicClientWith(&client.Messages, cfg)
}

// NewAnthropicClientWith uses a caller-supplied messages API.
func NewAnthropicClientWith(messages MessagesAPI, cfg *AnthropicConfig) *AnthropicClient {
	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &AnthropicClient{messages: messages, model: model, maxTokens: maxTokens}
}

func (a *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", apperrors.NewTextGenerationTimeoutError()
		}
		return "", apperrors.NewTextGenerationFailedError(fmt.Errorf("anthropic: %w", err))
	}
	if msg == nil {
		return "", apperrors.NewTextGenerationFailedError(errors.New("anthropic: nil message"))
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", apperrors.NewTextGenerationFailedError(errors.New("anthropic: no text content"))
	}
	return text, nil
}

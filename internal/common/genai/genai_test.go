package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
)

// ==========================
// Gateway client
// ==========================

func newGateway(url string, retries int) *GatewayClient {
	return NewGatewayClient(&GatewayConfig{
		BaseURL:    url,
		APIKey:     "test-key",
		MaxTokens:  256,
		MaxRetries: retries,
		Timeout:    2 * time.Second,
	}, nil)
}

func TestGatewayClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "recommend a factory", body["prompt"])
		assert.Equal(t, float64(256), body["max_tokens"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"text": " Choose factory-001. ", "confidence": 0.9})
	}))
	defer server.Close()

	text, err := newGateway(server.URL, 0).Generate(context.Background(), "recommend a factory")
	require.NoError(t, err)
	assert.Equal(t, "Choose factory-001.", text)
}

func TestGatewayClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"text": "ok"})
	}))
	defer server.Close()

	text, err := newGateway(server.URL, 2).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGatewayClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newGateway(server.URL, 3).Generate(context.Background(), "p")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTextGenerationFailed))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGatewayClient_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text": "   "}`))
	}))
	defer server.Close()

	_, err := newGateway(server.URL, 0).Generate(context.Background(), "p")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTextGenerationFailed))
}

func TestGatewayClient_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newGateway(server.URL, 0).Generate(context.Background(), "p")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTextGenerationFailed))
}

func TestGatewayClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newGateway(server.URL, 2).Generate(ctx, "p")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTextGenerationTimeout))
}

// ==========================
// Anthropic client
// ==========================

type fakeMessages struct {
	msg    *anthropic.Message
	err    error
	params anthropic.MessageNewParams
}

func (f *fakeMessages) New(_ context.Context, body anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.params = body
	return f.msg, f.err
}

func TestAnthropicClient_Generate(t *testing.T) {
	fake := &fakeMessages{msg: &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "Seoul Food Processing "},
			{Type: "text", Text: "is the best fit."},
		},
	}}
	client := NewAnthropicClientWith(fake, &AnthropicConfig{MaxTokens: 256})

	text, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Seoul Food Processing is the best fit.", text)
	assert.Equal(t, anthropic.Model(DefaultAnthropicModel), fake.params.Model)
	assert.Equal(t, int64(256), fake.params.MaxTokens)
	assert.Len(t, fake.params.Messages, 1)
}

func TestAnthropicClient_Errors(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeMessages
		code apperrors.ErrorCode
	}{
		{"api error", &fakeMessages{err: errors.New("overloaded")}, apperrors.ErrCodeTextGenerationFailed},
		{"deadline", &fakeMessages{err: context.DeadlineExceeded}, apperrors.ErrCodeTextGenerationTimeout},
		{"nil message", &fakeMessages{}, apperrors.ErrCodeTextGenerationFailed},
		{"no text blocks", &fakeMessages{msg: &anthropic.Message{Content: []anthropic.ContentBlockUnion{{Type: "tool_use"}}}}, apperrors.ErrCodeTextGenerationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewAnthropicClientWith(tt.fake, &AnthropicConfig{Model: "custom-model"})
			_, err := client.Generate(context.Background(), "prompt")
			assert.True(t, apperrors.HasCode(err, tt.code))
		})
	}
}

// ==========================
// Circuit breaker
// ==========================

type countingGenerator struct {
	calls int
	err   error
}

func (c *countingGenerator) Generate(context.Context, string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "text", nil
}

func TestBreakerGenerator_OpensAfterThreshold(t *testing.T) {
	inner := &countingGenerator{err: errors.New("down")}
	b := NewBreakerGenerator(inner, BreakerConfig{FailureThreshold: 2, Cooldown: time.Minute}, logger.NewTestLogger(t))

	for i := 0; i < 2; i++ {
		_, err := b.Generate(context.Background(), "p")
		require.Error(t, err)
	}
	assert.Equal(t, "open", b.State())

	_, err := b.Generate(context.Background(), "p")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTextGenerationFailed))
	assert.Equal(t, 2, inner.calls)
}

func TestBreakerGenerator_PassesThrough(t *testing.T) {
	inner := &countingGenerator{}
	b := NewBreakerGenerator(inner, BreakerConfig{}, logger.NewNoOpLogger())

	text, err := b.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "text", text)
	assert.Equal(t, "closed", b.State())
}

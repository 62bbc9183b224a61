package genai

import (
	"fmt"

	"factory-matching/internal/common/config"
	"factory-matching/internal/common/logger"
)

// NewFromConfig builds the configured generator wrapped in a circuit breaker.
// It returns nil when summaries are disabled or the provider has no endpoint or
// credentials, in which case callers use the template summary.
func NewFromConfig(cfg *config.Config, log logger.Logger) (Generator, error) {
	if !cfg.Matching.SummaryEnabled {
		return nil, nil
	}

	g := cfg.APIs.GenAI

	var gen Generator
	switch g.Provider {
	case config.ProviderGateway:
		if g.BaseURL == "" {
			log.Warn("GenAI gateway base_url not set, summaries use the template", nil)
			return nil, nil
		}
		gen = NewGatewayClient(&GatewayConfig{
			BaseURL:     g.BaseURL,
			APIKey:      g.APIKey,
			MaxTokens:   g.MaxTokens,
			Temperature: 0.3,
			MaxRetries:  1,
			Timeout:     config.GetDuration(g.Timeout),
		}, nil)
	case config.ProviderAnthropic:
		if g.APIKey == "" {
			log.Warn("Anthropic API key not set, summaries use the template", nil)
			return nil, nil
		}
		gen = NewAnthropicClient(&AnthropicConfig{
			APIKey:    g.APIKey,
			BaseURL:   g.BaseURL,
			Model:     g.Model,
			MaxTokens: g.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("unsupported genai provider %q", g.Provider)
	}

	return NewBreakerGenerator(gen, BreakerConfig{
		Name:             "genai-" + g.Provider,
		FailureThreshold: uint32(cfg.Matching.BreakerThreshold),
		Cooldown:         config.GetDuration(cfg.Matching.BreakerCooldown),
	}, log), nil
}

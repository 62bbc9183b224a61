package genai

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	apperrors "factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
)

type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Cooldown         time.Duration
	MaxHalfOpen      uint32
}

// BreakerGenerator stops calling a failing generator until the cooldown passes.
type BreakerGenerator struct {
	next Generator
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerGenerator(next Generator, cfg BreakerConfig, log logger.Logger) *BreakerGenerator {
	if cfg.Name == "" {
		cfg.Name = "genai"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.MaxHalfOpen == 0 {
		cfg.MaxHalfOpen = 1
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxHalfOpen,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Text generation circuit breaker changed state", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}

	return &BreakerGenerator{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (b *BreakerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", apperrors.NewTextGenerationFailedError(err)
	}
	return text, err
}

// State reports the breaker state for health output.
func (b *BreakerGenerator) State() string {
	return b.cb.State().String()
}

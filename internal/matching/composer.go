package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/metrics"
	"factory-matching/internal/models"
)

const (
	DefaultTopN           = 3
	DefaultSummaryTimeout = 5 * time.Second
)

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Composer ranks and annotates candidates and attaches a summary.
type Composer struct {
	generator      TextGenerator
	summaryTimeout time.Duration
	topN           int
	logger         logger.Logger
}

type ComposerOption func(*Composer)

// WithTopN sets how many matches are returned.
func WithTopN(n int) ComposerOption {
	return func(c *Composer) {
		if n > 0 {
			c.topN = n
		}
	}
}

// WithSummaryTimeout bounds the text-generation call.
func WithSummaryTimeout(d time.Duration) ComposerOption {
	return func(c *Composer) {
		if d > 0 {
			c.summaryTimeout = d
		}
	}
}

// NewComposer builds a Composer. A nil generator always uses the fallback summary.
func NewComposer(generator TextGenerator, log logger.Logger, opts ...ComposerOption) *Composer {
	c := &Composer{
		generator:      generator,
		summaryTimeout: DefaultSummaryTimeout,
		topN:           DefaultTopN,
		logger:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recommend runs filter, score, estimate, rank and annotate over registry.
// It does not validate req; callers pass a normalized request.
func (c *Composer) Recommend(ctx context.Context, req models.MatchRequest, registry *Registry) *models.RecommendationResult {
	candidates := Filter(req, registry)
	metrics.MatchingCandidates.Observe(float64(len(candidates)))

	result := &models.RecommendationResult{
		TotalCandidates: len(candidates),
		TopMatches:      []models.MatchResult{},
		SearchCriteria:  req,
	}

	if len(candidates) == 0 {
		result.AIRecommendation = models.AIRecommendation{
			Recommendation: NoMatchGuidance,
			Source:         models.SummarySourceNoMatch,
		}
		return result
	}

	if req.PreferredRegion != "" {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Region == req.PreferredRegion && candidates[j].Region != req.PreferredRegion
		})
	}

	result.TopMatches = c.rank(candidates, req)
	result.AIRecommendation = c.summarize(ctx, result.TopMatches, req)
	return result
}

func (c *Composer) rank(candidates []models.Factory, req models.MatchRequest) []models.MatchResult {
	avgCost := AverageCost(candidates)

	scored := make([]models.MatchResult, 0, len(candidates))
	for _, f := range candidates {
		breakdown := Score(f, req, avgCost)
		scored = append(scored, models.MatchResult{
			Factory:           f,
			MatchScore:        breakdown.Total(),
			ScoreBreakdown:    breakdown,
			EstimatedCost:     EstimateCost(f, req.MonthlyQuantity),
			EstimatedLeadTime: EstimateLeadTime(f, req.Urgency),
			MatchReasons:      MatchReasons(f, breakdown),
			Warnings:          Warnings(f, req),
		})
	}

	// Stable: equal scores keep candidate order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	if len(scored) > c.topN {
		scored = scored[:c.topN]
	}
	return scored
}

// Summarize returns the recommendation text for already ranked matches. An
// empty slice yields the no-match guidance.
func (c *Composer) Summarize(ctx context.Context, top []models.MatchResult, req models.MatchRequest) models.AIRecommendation {
	if len(top) == 0 {
		return models.AIRecommendation{
			Recommendation: NoMatchGuidance,
			Source:         models.SummarySourceNoMatch,
		}
	}
	return c.summarize(ctx, top, req)
}

type generation struct {
	text string
	err  error
}

// summarize never fails: any generator problem yields the fallback sentence.
func (c *Composer) summarize(ctx context.Context, top []models.MatchResult, req models.MatchRequest) models.AIRecommendation {
	fallback := models.AIRecommendation{
		Recommendation: FallbackSummary(top[0]),
		Source:         models.SummarySourceFallback,
	}

	if c.generator == nil {
		metrics.MatchingSummaryFallbacks.WithLabelValues("disabled").Inc()
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, c.summaryTimeout)
	defer cancel()

	done := make(chan generation, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- generation{err: fmt.Errorf("text generator panicked: %v", r)}
			}
		}()
		text, err := c.generator.Generate(ctx, BuildPrompt(top, req))
		done <- generation{text: text, err: err}
	}()

	var reason string
	select {
	case <-ctx.Done():
		reason = "timeout"
		c.logger.Warn("Summary generation timed out, using fallback", map[string]interface{}{
			"timeout": c.summaryTimeout.String(),
		})
	case g := <-done:
		switch {
		case g.err != nil:
			reason = "error"
			c.logger.Warn("Summary generation failed, using fallback", map[string]interface{}{
				"error": g.err.Error(),
			})
		case strings.TrimSpace(g.text) == "":
			reason = "empty"
			c.logger.Warn("Summary generation returned empty text, using fallback", nil)
		default:
			return models.AIRecommendation{
				Recommendation: strings.TrimSpace(g.text),
				Source:         models.SummarySourceAI,
			}
		}
	}

	metrics.MatchingSummaryFallbacks.WithLabelValues(reason).Inc()
	return fallback
}

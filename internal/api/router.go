// Package api exposes the matching and consultation services over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"factory-matching/internal/common/logger"
	"factory-matching/internal/models"
)

// Matcher is the factory-matching surface used by the handlers.
type Matcher interface {
	Recommend(ctx context.Context, req models.MatchRequest) (*models.RecommendationResult, error)
	Factory(ctx context.Context, id string) (*models.Factory, error)
	Factories(ctx context.Context) ([]models.Factory, error)
}

// Consultations is the lead-intake surface used by the handlers.
type Consultations interface {
	Create(ctx context.Context, req *models.ConsultationRequest) (*models.Consultation, error)
	Get(ctx context.Context, id string) (*models.Consultation, error)
	List(ctx context.Context, filter models.ConsultationFilter) (*models.ConsultationPage, error)
	Update(ctx context.Context, id string, upd *models.ConsultationUpdate) (*models.Consultation, error)
	Delete(ctx context.Context, id string) error
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type RouterConfig struct {
	AllowedOrigins  []string
	RateLimit       int
	RateLimitWindow time.Duration
	RequestTimeout  time.Duration
}

type Server struct {
	matcher       Matcher
	consultations Consultations
	ready         map[string]ReadinessCheck
	logger        logger.Logger
}

func NewServer(matcher Matcher, consultations Consultations, ready map[string]ReadinessCheck, log logger.Logger) *Server {
	return &Server{
		matcher:       matcher,
		consultations: consultations,
		ready:         ready,
		logger:        logger.ForComponent(log, "api"),
	}
}

// Router builds the chi handler tree.
func (s *Server) Router(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
		}
		if cfg.RateLimit > 0 {
			r.Use(httprate.Limit(cfg.RateLimit, cfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(s.handleRateLimited),
			))
		}

		r.Post("/factory-matching", s.handleFactoryMatching)
		r.Get("/factories", s.handleListFactories)
		r.Get("/factories/{id}", s.handleGetFactory)

		r.Route("/consultations", func(r chi.Router) {
			r.Get("/", s.handleListConsultations)
			r.Post("/", s.handleCreateConsultation)
			r.Get("/{id}", s.handleGetConsultation)
			r.Put("/{id}", s.handleUpdateConsultation)
			r.Delete("/{id}", s.handleDeleteConsultation)
		})
	})

	return r
}

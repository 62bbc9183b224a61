// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"factory-matching/internal/api"
	awsclient "factory-matching/internal/common/aws"
	"factory-matching/internal/common/camunda"
	"factory-matching/internal/common/config"
	"factory-matching/internal/common/genai"
	httpclient "factory-matching/internal/common/http"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/observability"
	"factory-matching/internal/common/zoho"
	"factory-matching/internal/consultation"
	"factory-matching/internal/matching"
	"factory-matching/internal/repository"

	cms "factory-matching/internal/workers/matching/calculate-match-score"
	mf "factory-matching/internal/workers/matching/match-factories"
	rs "factory-matching/internal/workers/matching/recommendation-synthesis"

	cc "factory-matching/internal/workers/consultation/create-consultation"
	scn "factory-matching/internal/workers/consultation/send-consultation-notification"
	scl "factory-matching/internal/workers/consultation/sync-crm-lead"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting factory matching service...",
		zap.String("environment", cfg.App.Environment),
		zap.String("storage", cfg.Storage.Backend),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("OpenTelemetry metrics unavailable", zap.Error(err))
	}

	ctx := context.Background()

	// --- Storage with retry ---
	var store *repository.Store
	err = retryWithBackoff(func() error {
		var err error
		store, err = repository.Open(ctx, cfg, log)
		if err != nil {
			return err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return err
		}
		return nil
	}, 10, 2*time.Second, zapLog, "Storage initialization")
	if err != nil {
		zapLog.Fatal("storage failed after retries", zap.Error(err))
	}
	defer store.Close()

	if cfg.Storage.SeedDefaultCatalog {
		added, err := store.Seed(ctx, matching.DefaultCatalog())
		if err != nil {
			zapLog.Fatal("seeding factory catalogue failed", zap.Error(err))
		}
		zapLog.Info("Factory catalogue seeded", zap.Int("added", added))
	}

	// --- Matching ---
	generator, err := genai.NewFromConfig(cfg, log)
	if err != nil {
		zapLog.Fatal("text generator init failed", zap.Error(err))
	}
	var textGen matching.TextGenerator
	if generator != nil {
		textGen = generator
	}
	composer := matching.NewComposer(textGen, log,
		matching.WithTopN(cfg.Matching.TopN),
		matching.WithSummaryTimeout(config.GetDuration(cfg.Matching.SummaryTimeout)),
	)
	matcher := matching.NewService(store.Factories, composer, log)

	// --- Consultations ---
	notifier, err := buildNotifier(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("notifier init failed", zap.Error(err))
	}
	consultations := consultation.NewService(store.Consultations, notifier, log)

	// --- Zeebe workers ---
	var zeebe *camunda.Client
	var jobWorkers []worker.JobWorker
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.Connect(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		}, log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		var recorder camunda.JobRecorder
		if obs != nil {
			recorder = obs
		}
		jobWorkers = startWorkers(zeebe, cfg, workerDeps{
			matcher:       matcher,
			composer:      composer,
			consultations: consultations,
			crm:           buildCRM(cfg),
			recorder:      recorder,
		}, log)
	} else {
		zapLog.Info("Camunda disabled, running HTTP API only")
	}

	// --- HTTP API, health and metrics ---
	ready := map[string]api.ReadinessCheck{"storage": store.Ping}
	if zeebe != nil {
		ready["zeebe"] = zeebe.HealthCheck
	}
	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewServer(matcher, consultations, ready, log).Router(api.RouterConfig{
			AllowedOrigins:  cfg.Server.AllowedOrigins,
			RateLimit:       cfg.Server.RateLimit,
			RateLimitWindow: config.GetDuration(cfg.Server.RateLimitWindow),
			RequestTimeout:  config.GetDuration(cfg.Server.RequestTimeout),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	for _, w := range jobWorkers {
		w.Close()
		w.AwaitClose()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if obs != nil {
		if err := obs.Shutdown(shutdownCtx); err != nil {
			zapLog.Warn("OpenTelemetry shutdown failed", zap.Error(err))
		}
	}

	zapLog.Info("Service stopped gracefully")
}

// buildNotifier wires the enabled channels. Disabled channels get nil
// interfaces, never typed nil pointers.
func buildNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) (*consultation.ChannelNotifier, error) {
	n := cfg.Notifications

	var slack consultation.SlackPoster
	if n.Slack.Enabled && cfg.Integrations.Slack.WebhookURL != "" {
		slack = consultation.NewSlackWebhook(cfg.Integrations.Slack.WebhookURL, httpclient.NewClient(10*time.Second))
	}

	var smsClient consultation.SNSService
	if n.SMS.Enabled {
		c, err := awsclient.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		smsClient = c
	}

	var emailClient consultation.SESService
	if n.Email.Enabled {
		c, err := awsclient.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("ses client: %w", err)
		}
		emailClient = c
	}

	fromEmail := n.Email.FromEmail
	if fromEmail == "" {
		fromEmail = cfg.Integrations.AWS.SES.FromEmail
	}

	return consultation.NewChannelNotifier(consultation.NotifierConfig{
		AdminPhone:   n.AdminPhone,
		AdminEmail:   n.AdminEmail,
		FromEmail:    fromEmail,
		SMSSenderID:  cfg.Integrations.AWS.SNS.DefaultSMSSenderID,
		EmailEnabled: n.Email.Enabled,
		SMSEnabled:   n.SMS.Enabled,
		SlackEnabled: n.Slack.Enabled,
	}, slack, smsClient, emailClient, log), nil
}

func buildCRM(cfg *config.Config) scl.LeadSyncer {
	z := cfg.Integrations.Zoho
	if !z.Enabled || z.AuthToken == "" {
		return nil
	}
	return zoho.NewCRMClient(z.BaseURL, z.AuthToken, httpclient.NewClient(30*time.Second))
}

type workerDeps struct {
	matcher       *matching.Service
	composer      *matching.Composer
	consultations *consultation.Service
	crm           scl.LeadSyncer
	recorder      camunda.JobRecorder
}

func startWorkers(zeebe *camunda.Client, cfg *config.Config, deps workerDeps, log logger.Logger) []worker.JobWorker {
	client := zeebe.GetClient()
	var workers []worker.JobWorker

	open := func(taskType string, handler worker.JobHandler) {
		if w := camunda.OpenWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}

	// --- Matching Workers (3) ---
	open(mf.TaskType, mf.NewHandler(
		mf.LoadConfig(config.GetWorkerConfig(cfg, mf.TaskType)),
		mf.Dependencies{Matcher: deps.matcher, Recorder: deps.recorder},
		log,
	).Handle)

	open(cms.TaskType, cms.NewHandler(
		cms.LoadConfig(config.GetWorkerConfig(cfg, cms.TaskType)),
		deps.recorder,
		log,
	).Handle)

	open(rs.TaskType, rs.NewHandler(
		rs.LoadConfig(config.GetWorkerConfig(cfg, rs.TaskType)),
		rs.Dependencies{Summarizer: deps.composer, Recorder: deps.recorder},
		log,
	).Handle)

	// --- Consultation Workers (3) ---
	open(cc.TaskType, cc.NewHandler(
		cc.LoadConfig(config.GetWorkerConfig(cfg, cc.TaskType)),
		cc.Dependencies{Consultations: deps.consultations, Recorder: deps.recorder},
		log,
	).Handle)

	open(scn.TaskType, scn.NewHandler(
		scn.LoadConfig(config.GetWorkerConfig(cfg, scn.TaskType)),
		scn.Dependencies{Consultations: deps.consultations, Recorder: deps.recorder},
		log,
	).Handle)

	open(scl.TaskType, scl.NewHandler(
		scl.LoadConfig(cfg),
		scl.Dependencies{Consultations: deps.consultations, CRM: deps.crm, Recorder: deps.recorder},
		log,
	).Handle)

	log.Info("Workers registered", map[string]interface{}{"count": len(workers)})
	return workers
}

// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"factory-matching/internal/common/config"
	apperrors "factory-matching/internal/common/errors"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/metrics"
)

// JobFunc runs a job's business logic against its raw variables and returns the
// object to complete the job with.
type JobFunc func(ctx context.Context, variables string) (interface{}, error)

// JobRecorder receives per-job outcomes, typically the OpenTelemetry meter.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string)
}

// JobRunner owns the lifecycle every worker shares: timeout, metrics, completion
// and BPMN error mapping.
type JobRunner struct {
	taskType string
	timeout  time.Duration
	errors   *apperrors.ErrorHandler
	recorder JobRecorder
	logger   logger.Logger
}

func NewJobRunner(taskType string, timeout time.Duration, log logger.Logger) *JobRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log = log.WithFields(map[string]interface{}{"taskType": taskType})
	return &JobRunner{
		taskType: taskType,
		timeout:  timeout,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}
}

// WithRecorder attaches an outcome recorder.
func (r *JobRunner) WithRecorder(rec JobRecorder) *JobRunner {
	r.recorder = rec
	return r
}

func (r *JobRunner) TaskType() string { return r.taskType }

func (r *JobRunner) Run(client worker.JobClient, job entities.Job, fn JobFunc) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(r.taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(r.taskType).Dec()

	r.logger.Info("Processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
		"retries":            job.Retries,
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	output, err := fn(ctx, job.Variables)
	if err != nil {
		code := apperrors.Normalize(err).Code
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(code)).Inc()
		r.record(ctx, start, "failed")
		r.errors.HandleJobError(ctx, client, job, err)
		return
	}

	if err := r.complete(ctx, client, job, output); err != nil {
		r.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		metrics.WorkerJobsFailed.WithLabelValues(r.taskType, "COMPLETE_FAILED").Inc()
		r.record(ctx, start, "failed")
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(r.taskType).Observe(time.Since(start).Seconds())
	r.record(ctx, start, "completed")

	r.logger.Info("Job completed", map[string]interface{}{
		"jobKey":   job.Key,
		"duration": time.Since(start).String(),
	})
}

func (r *JobRunner) complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return err
	}
	_, err = cmd.Send(ctx)
	return err
}

func (r *JobRunner) record(ctx context.Context, start time.Time, status string) {
	if r.recorder == nil {
		return
	}
	r.recorder.RecordJobProcessed(ctx, r.taskType, status)
	r.recorder.RecordJobDuration(ctx, r.taskType, time.Since(start), status)
}

// Decode unmarshals job variables, mapping malformed input to invalid.
func Decode(variables string, out interface{}, invalid func(string) *apperrors.StandardError) error {
	if err := json.Unmarshal([]byte(variables), out); err != nil {
		return invalid("malformed job variables: " + err.Error())
	}
	return nil
}

// OpenWorker starts a job worker for taskType unless it is disabled in config.
// It returns nil for disabled workers.
func OpenWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("Worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Name(taskType + "-worker").
		Open()

	log.Info("Worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return jobWorker
}

// Package scheduler runs queued batch reports in the background.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	insightapp "github.com/programmatrix/backend/internal/application/insight"
	"github.com/programmatrix/backend/internal/domain/insight"
)

// BatchRunnerConfig holds configuration for the batch report runner
type BatchRunnerConfig struct {
	// Enabled indicates if the runner is enabled
	Enabled bool
	// PollInterval is how often the runner checks for due reports
	PollInterval time.Duration
	// BatchSize is the maximum number of reports claimed per poll
	BatchSize int
	// JobTimeout is the maximum time one polling cycle may run
	JobTimeout time.Duration
	// RetryAttempts is the number of attempts for a failed poll query
	RetryAttempts int
	// RetryDelay is the delay between poll query retries
	RetryDelay time.Duration
}

// DefaultBatchRunnerConfig returns default runner configuration
func DefaultBatchRunnerConfig() BatchRunnerConfig {
	return BatchRunnerConfig{
		Enabled:       true,
		PollInterval:  time.Minute,
		BatchSize:     20,
		JobTimeout:    10 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    5 * time.Second,
	}
}

// BatchRunner polls for pending batch reports and drives them through
// the report pipeline. Reports are processed strictly sequentially in
// queue order; each report reaches a terminal state and is persisted
// before the next one starts.
type BatchRunner struct {
	config  BatchRunnerConfig
	service *insightapp.ReportService
	repo    insight.BatchReportRepository
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
}

// NewBatchRunner creates a new batch report runner
func NewBatchRunner(
	config BatchRunnerConfig,
	service *insightapp.ReportService,
	repo insight.BatchReportRepository,
	logger *zap.Logger,
) *BatchRunner {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Minute
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchRunner{
		config:  config,
		service: service,
		repo:    repo,
		logger:  logger,
	}
}

// Start starts the runner's polling loop
func (r *BatchRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = true
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.pollLoop(ctx)

	r.logger.Info("batch report runner started",
		zap.Duration("poll_interval", r.config.PollInterval),
		zap.Int("batch_size", r.config.BatchSize),
	)
	return nil
}

// Stop stops the runner and waits for the in-flight cycle to finish
func (r *BatchRunner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("batch report runner stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("batch report runner stop timed out")
		return ctx.Err()
	}
}

// TriggerManualRun runs one polling cycle immediately. Uses a
// background context so the cycle is not cancelled when the calling
// HTTP request completes.
func (r *BatchRunner) TriggerManualRun(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	r.mu.Unlock()

	go r.runCycle(context.Background())
	return nil
}

// GetStatus returns the current runner status
func (r *BatchRunner) GetStatus() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	return map[string]any{
		"enabled":       r.config.Enabled,
		"is_running":    r.isRunning,
		"poll_interval": r.config.PollInterval.String(),
		"batch_size":    r.config.BatchSize,
		"last_run_at":   r.lastRunAt,
	}
}

func (r *BatchRunner) pollLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runCycle(ctx)
		}
	}
}

// runCycle claims due reports and processes them through the pipeline
func (r *BatchRunner) runCycle(ctx context.Context) {
	now := time.Now()
	r.mu.Lock()
	r.lastRunAt = &now
	r.mu.Unlock()

	if r.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.JobTimeout)
		defer cancel()
	}

	due, err := r.findDueWithRetry(ctx)
	if err != nil {
		r.logger.Error("failed to fetch due batch reports", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	r.logger.Info("processing due batch reports", zap.Int("count", len(due)))

	reports := make([]*insight.BatchReport, len(due))
	for i := range due {
		reports[i] = &due[i]
	}

	r.service.GenerateBatch(ctx, reports)

	for _, report := range reports {
		if !report.Status.Terminal() {
			// Empty-metric reports are skipped by the pipeline and
			// stay pending; nothing to persist.
			continue
		}
		if err := r.repo.Save(ctx, report); err != nil {
			r.logger.Error("failed to persist batch report result",
				zap.String("report_id", report.ID.String()),
				zap.String("status", string(report.Status)),
				zap.Error(err),
			)
		}
	}
}

func (r *BatchRunner) findDueWithRetry(ctx context.Context) ([]insight.BatchReport, error) {
	var lastErr error
	attempts := r.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.config.RetryDelay):
			}
		}

		due, err := r.repo.FindDue(ctx, r.config.BatchSize)
		if err == nil {
			return due, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

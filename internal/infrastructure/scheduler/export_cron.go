package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExportCronConfig holds configuration for the daily export trigger
type ExportCronConfig struct {
	// Hour is the local hour of day (0-23) to run the daily export
	Hour int
	// CheckInterval is how often to check whether it is time to run
	CheckInterval time.Duration
}

// DefaultExportCronConfig returns default export trigger configuration
func DefaultExportCronConfig() ExportCronConfig {
	return ExportCronConfig{
		Hour:          3, // 3am, after overnight order settlement
		CheckInterval: time.Minute,
	}
}

// ExportCron submits a daily inventory export job at the configured hour
type ExportCron struct {
	config    ExportCronConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewExportCron creates a new daily export trigger
func NewExportCron(config ExportCronConfig, scheduler *Scheduler, logger *zap.Logger) *ExportCron {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &ExportCron{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the trigger loop
func (c *ExportCron) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Export cron started",
		zap.Int("daily_hour", c.config.Hour),
		zap.Duration("check_interval", c.config.CheckInterval),
	)

	return nil
}

// Stop stops the trigger loop
func (c *ExportCron) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Export cron stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *ExportCron) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger()
		}
	}
}

// checkAndTrigger submits the export once per day at the configured hour
func (c *ExportCron) checkAndTrigger() {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	c.mu.Lock()
	alreadyRan := c.lastRunDate == currentDate
	c.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != c.config.Hour {
		return
	}

	c.mu.Lock()
	c.lastRunDate = currentDate
	c.mu.Unlock()

	if err := c.TriggerExport(now); err != nil {
		c.logger.Error("Failed to submit daily inventory export", zap.Error(err))
	}
}

// TriggerExport submits an inventory export job covering the previous day.
// Exposed so an admin endpoint can force an out-of-schedule export.
func (c *ExportCron) TriggerExport(at time.Time) error {
	yesterday := at.AddDate(0, 0, -1)
	periodStart := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.Local)
	periodEnd := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 23, 59, 59, 999999999, time.Local)

	job := NewJob(JobTypeInventoryExport, periodStart, periodEnd, 3)
	if err := c.scheduler.SubmitJob(job); err != nil {
		return err
	}

	c.logger.Info("Daily inventory export submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("period", periodEnd.Format("2006-01-02")),
	)
	return nil
}

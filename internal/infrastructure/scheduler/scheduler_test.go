package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubExecutor counts executions and fails the first failCount calls
type stubExecutor struct {
	mu        sync.Mutex
	calls     int32
	failCount int
	done      chan struct{}
}

func newStubExecutor(failCount int) *stubExecutor {
	return &stubExecutor{failCount: failCount, done: make(chan struct{}, 10)}
}

func (e *stubExecutor) Execute(ctx context.Context, job *Job) error {
	n := atomic.AddInt32(&e.calls, 1)
	defer func() { e.done <- struct{}{} }()
	e.mu.Lock()
	fail := int(n) <= e.failCount
	e.mu.Unlock()
	if fail {
		return errors.New("boom")
	}
	return nil
}

func (e *stubExecutor) waitForCalls(t *testing.T, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for i := 0; i < n; i++ {
		select {
		case <-e.done:
		case <-deadline:
			t.Fatalf("timed out waiting for %d executor calls, saw %d", n, atomic.LoadInt32(&e.calls))
		}
	}
}

func newTestScheduler(executor JobExecutor) *Scheduler {
	cfg := SchedulerConfig{
		MaxConcurrentJobs: 1,
		JobTimeout:        time.Second,
		RetryAttempts:     2,
		RetryDelay:        0,
	}
	s := NewScheduler(cfg, zap.NewNop())
	s.RegisterExecutor(JobTypeInventoryExport, executor)
	return s
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(JobTypeInventoryExport, time.Now().Add(-24*time.Hour), time.Now(), 3)

	assert.Equal(t, JobStatusPending, job.Status)
	assert.NotEqual(t, "", job.ID.String())

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	require.NotNil(t, job.NextRetryAt)

	job.Start()
	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.False(t, job.ShouldRetry())
}

func TestScheduler_ExecutesSubmittedJob(t *testing.T) {
	executor := newStubExecutor(0)
	s := newTestScheduler(executor)

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	job := NewJob(JobTypeInventoryExport, time.Now().Add(-24*time.Hour), time.Now(), 0)
	require.NoError(t, s.SubmitJob(job))

	executor.waitForCalls(t, 1, 2*time.Second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&executor.calls))
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	executor := newStubExecutor(1)
	s := newTestScheduler(executor)

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	job := NewJob(JobTypeInventoryExport, time.Now().Add(-24*time.Hour), time.Now(), 2)
	require.NoError(t, s.SubmitJob(job))

	executor.waitForCalls(t, 2, 2*time.Second)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&executor.calls), int32(2))
}

func TestScheduler_RejectsUnknownJobType(t *testing.T) {
	s := newTestScheduler(newStubExecutor(0))

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	job := NewJob(JobTypeSearchReindex, time.Now(), time.Now(), 0)
	err := s.SubmitJob(job)
	assert.ErrorIs(t, err, ErrInvalidJobType)
}

func TestScheduler_RejectsWhenStopped(t *testing.T) {
	s := newTestScheduler(newStubExecutor(0))

	job := NewJob(JobTypeInventoryExport, time.Now(), time.Now(), 0)
	err := s.SubmitJob(job)
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestExportCron_TriggerExport(t *testing.T) {
	executor := newStubExecutor(0)
	s := newTestScheduler(executor)
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	cron := NewExportCron(DefaultExportCronConfig(), s, zap.NewNop())
	require.NoError(t, cron.TriggerExport(time.Date(2026, 3, 10, 3, 0, 0, 0, time.Local)))

	executor.waitForCalls(t, 1, 2*time.Second)
}

func TestDefaultExportCronConfig(t *testing.T) {
	cfg := DefaultExportCronConfig()
	assert.Equal(t, 3, cfg.Hour)
	assert.Equal(t, time.Minute, cfg.CheckInterval)
}

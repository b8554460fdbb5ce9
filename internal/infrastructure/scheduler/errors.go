package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting a job to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrInvalidJobType is returned for unknown job types
	ErrInvalidJobType = errors.New("invalid job type")

	// ErrExportFailed is returned when an inventory export fails
	ErrExportFailed = errors.New("inventory export failed")
)

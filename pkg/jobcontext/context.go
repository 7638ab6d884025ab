package jobcontext

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyJobID        KeyContext = "job_id"
	keyTeamID       KeyContext = "team_id"
	keyWorkerID     KeyContext = "worker_id"
	keyJobStartTime KeyContext = "job_start_time"
)

// DefaultTimeout bounds a job when no timeout is configured
const DefaultTimeout = 5 * time.Minute

// JobMetadata holds metadata for an analysis job execution
type JobMetadata struct {
	JobID     uuid.UUID
	TeamID    int
	WorkerID  int
	StartTime time.Time
}

// Elapsed returns the time since the job started
func (m *JobMetadata) Elapsed() time.Duration {
	if m.StartTime.IsZero() {
		return 0
	}
	return time.Since(m.StartTime)
}

// JobBegin derives a job context with metadata and a timeout
func JobBegin(parentCtx context.Context, jobID uuid.UUID, teamID, workerID int, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyJobID, jobID)
	ctx = context.WithValue(ctx, keyTeamID, teamID)
	ctx = context.WithValue(ctx, keyWorkerID, workerID)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// GetJobID extracts job ID from context
func GetJobID(ctx context.Context) (uuid.UUID, bool) {
	jobID, ok := ctx.Value(keyJobID).(uuid.UUID)
	return jobID, ok
}

// GetTeamID extracts the team being analyzed from context
func GetTeamID(ctx context.Context) (int, bool) {
	teamID, ok := ctx.Value(keyTeamID).(int)
	return teamID, ok
}

// GetWorkerID extracts worker ID from context
func GetWorkerID(ctx context.Context) int {
	workerID, ok := ctx.Value(keyWorkerID).(int)
	if !ok {
		return -1
	}
	return workerID
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	jobID, _ := GetJobID(ctx)
	teamID, _ := GetTeamID(ctx)
	startTime, _ := GetJobStartTime(ctx)

	return &JobMetadata{
		JobID:     jobID,
		TeamID:    teamID,
		WorkerID:  GetWorkerID(ctx),
		StartTime: startTime,
	}
}

// IsRetryableError checks if a failed store write should be attempted again.
// Retryable errors include network errors, timeouts, deadlocks and server errors.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Database deadlock/lock errors (Postgres)
	if strings.Contains(errStr, "deadlock") ||
		strings.Contains(errStr, "40001") || // serialization_failure
		strings.Contains(errStr, "40p01") { // deadlock_detected
		return true
	}

	// Redis failover
	if strings.Contains(errStr, "loading") ||
		strings.Contains(errStr, "readonly") ||
		strings.Contains(errStr, "tryagain") {
		return true
	}

	// Server errors
	if strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	return strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again")
}

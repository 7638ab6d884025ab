package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobBegin(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := JobBegin(context.Background(), jobID, 7, 2, time.Minute)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)

	meta := GetJobMetadata(ctx)
	assert.Equal(t, jobID, meta.JobID)
	assert.Equal(t, 7, meta.TeamID)
	assert.Equal(t, 2, meta.WorkerID)
	assert.False(t, meta.StartTime.IsZero())
	assert.GreaterOrEqual(t, meta.Elapsed(), time.Duration(0))
}

func TestJobBegin_DefaultTimeout(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), 1, 0, 0)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(DefaultTimeout), deadline, time.Second)
}

func TestGetters_Missing(t *testing.T) {
	ctx := context.Background()

	_, ok := GetJobID(ctx)
	assert.False(t, ok)
	_, ok = GetTeamID(ctx)
	assert.False(t, ok)
	assert.Equal(t, -1, GetWorkerID(ctx))
	assert.Equal(t, time.Duration(0), GetJobMetadata(ctx).Elapsed())
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{fmt.Errorf("write: %w", context.DeadlineExceeded), true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{errors.New("LOADING Redis is loading the dataset in memory"), true},
		{errors.New("record not found"), false},
		{errors.New("json: unsupported type"), false},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err))
		})
	}
}

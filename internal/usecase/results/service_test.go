package results

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/infrastructure/cache"
	"github.com/johnquangdev/oncovoice/internal/testutil"
	usecaseErrors "github.com/johnquangdev/oncovoice/internal/usecase/errors"
)

var poll = PollConfig{Interval: 30 * time.Second, FastInterval: 3 * time.Second}

func seed(t *testing.T, store *cache.MemoryResultStore, records ...*entities.TeamResult) {
	t.Helper()
	for _, r := range records {
		require.NoError(t, store.Set(context.Background(), r))
	}
}

func completed(teamID int) *entities.TeamResult {
	r := entities.NewProcessingResult(entities.Team{ID: teamID, Name: "Team"}, "sub", "transcript", "")
	r.Complete(entities.Analysis{Summary: "s", Conclusion: "c", Criticism: "k"}, "")
	return r
}

func TestSnapshot(t *testing.T) {
	store := cache.NewMemoryResultStore("")
	svc := NewService(testutil.Catalog("http://docs"), store, poll, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Results, 3)
	assert.Nil(t, snap.Results["team-1"])
	assert.Contains(t, snap.Results, "team-3")
	assert.Equal(t, 30*time.Second, snap.PollInterval)

	seed(t, store, completed(1))
	snap, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap.Results["team-1"])
	assert.Equal(t, entities.ResultStatusCompleted, snap.Results["team-1"].Status)
	assert.Equal(t, 30*time.Second, snap.PollInterval)

	seed(t, store, entities.NewProcessingResult(entities.Team{ID: 2, Name: "Team 2"}, "sub", "t", ""))
	snap, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.InFlight)
	assert.Equal(t, 3*time.Second, snap.PollInterval)
}

func TestSnapshot_IgnoresTeamsOutsideCatalog(t *testing.T) {
	store := cache.NewMemoryResultStore("")
	seed(t, store, completed(14))
	svc := NewService(testutil.Catalog("http://docs"), store, poll, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, snap.Results, "team-14")
}

func TestGet(t *testing.T) {
	store := cache.NewMemoryResultStore("")
	seed(t, store, completed(1))
	svc := NewService(testutil.Catalog("http://docs"), store, poll, nil)

	r, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "s", r.Summary)

	_, err = svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, usecaseErrors.ErrNotFound)

	_, err = svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, usecaseErrors.ErrUnknownTeam)
}

type brokenStore struct{ *cache.MemoryResultStore }

func (brokenStore) List(ctx context.Context, ids []int) (map[int]*entities.TeamResult, error) {
	return nil, errors.New("redis: connection pool timeout")
}

func (brokenStore) Get(ctx context.Context, id int) (*entities.TeamResult, error) {
	return nil, errors.New("redis: connection pool timeout")
}

func TestStoreFailures(t *testing.T) {
	svc := NewService(testutil.Catalog("http://docs"), brokenStore{cache.NewMemoryResultStore("")}, poll, nil)

	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, usecaseErrors.ErrStoreFailure)

	_, err = svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, usecaseErrors.ErrStoreFailure)

	_, err = svc.ExportXLSX(context.Background())
	assert.ErrorIs(t, err, usecaseErrors.ErrStoreFailure)
}

func TestExportXLSX(t *testing.T) {
	store := cache.NewMemoryResultStore("")
	seed(t, store, completed(2))
	svc := NewService(testutil.Catalog("http://docs"), store, poll, nil)

	data, err := svc.ExportXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Team ID", rows[0][0])
	assert.Equal(t, "idle", rows[1][4])
	assert.Equal(t, "completed", rows[2][4])
	assert.Equal(t, "s", rows[2][5])
	assert.Equal(t, "k", rows[2][7])
}

func TestNewService_ClampsFastInterval(t *testing.T) {
	svc := NewService(testutil.Catalog("http://docs"), cache.NewMemoryResultStore(""), PollConfig{Interval: time.Second, FastInterval: time.Minute}, nil)
	assert.Equal(t, time.Second, svc.poll.FastInterval)
}

package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/internal/domain/repositories"
)

func newRedisStore(t *testing.T, prefix string) (*RedisResultStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisResultStore(client, prefix), mr
}

func storesUnderTest(t *testing.T) map[string]repositories.ResultStore {
	redisStore, _ := newRedisStore(t, "")
	return map[string]repositories.ResultStore{
		"memory": NewMemoryResultStore(""),
		"redis":  redisStore,
	}
}

func TestResultStore_SetGetRoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, 1)
			assert.ErrorIs(t, err, entities.ErrResultNotFound)

			rec := entities.NewProcessingResult(entities.Team{ID: 1, Name: "Team 1"}, "sub-1", "نص", "http://audio/1.m4a")
			require.NoError(t, store.Set(ctx, rec))

			got, err := store.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, entities.ResultStatusProcessing, got.Status)
			assert.Equal(t, "نص", got.Transcript)
			assert.Equal(t, "sub-1", got.SubmissionID)
			assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestResultStore_LastWriteWins(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			team := entities.Team{ID: 2, Name: "Team 2"}

			first := entities.NewProcessingResult(team, "first", "a", "")
			second := entities.NewProcessingResult(team, "second", "b", "")
			second.Complete(entities.Analysis{Summary: "s", Conclusion: "c", Criticism: "k"}, "")

			require.NoError(t, store.Set(ctx, first))
			require.NoError(t, store.Set(ctx, second))

			got, err := store.Get(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, "second", got.SubmissionID)
			assert.Equal(t, entities.ResultStatusCompleted, got.Status)
		})
	}
}

func TestResultStore_ListOmitsMissing(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, entities.NewProcessingResult(entities.Team{ID: 1}, "", "", "")))
			require.NoError(t, store.Set(ctx, entities.NewProcessingResult(entities.Team{ID: 3}, "", "", "")))

			got, err := store.List(ctx, []int{1, 2, 3, 4})
			require.NoError(t, err)
			assert.Len(t, got, 2)
			assert.Contains(t, got, 1)
			assert.Contains(t, got, 3)
			assert.NotContains(t, got, 2)

			empty, err := store.List(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestRedisResultStore_UsesPrefixedKeys(t *testing.T) {
	store, mr := newRedisStore(t, "oncovoice:")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, entities.NewProcessingResult(entities.Team{ID: 7}, "", "", "")))

	assert.True(t, mr.Exists("oncovoice:team-7"))
	assert.False(t, mr.Exists("team-7"))
	assert.NoError(t, store.Ping(ctx))
}

func TestRedisResultStore_CorruptValue(t *testing.T) {
	store, mr := newRedisStore(t, "")
	require.NoError(t, mr.Set("team-5", "{not json"))

	_, err := store.Get(context.Background(), 5)
	require.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrResultNotFound)
}

func TestMemoryResultStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryResultStore("")
	ctx := context.Background()
	rec := entities.NewProcessingResult(entities.Team{ID: 1}, "", "original", "")
	require.NoError(t, store.Set(ctx, rec))

	rec.Transcript = "mutated after set"
	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Transcript)

	got.Transcript = "mutated after get"
	again, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Transcript)
}

func TestMemoryResultStore_ConcurrentWriters(t *testing.T) {
	store := NewMemoryResultStore("")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set(ctx, entities.NewProcessingResult(entities.Team{ID: 1 + n%3}, "", "", ""))
		}(i)
	}
	wg.Wait()

	got, err := store.List(ctx, []int{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

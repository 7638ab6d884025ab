package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
)

// MemoryResultStore keeps result records in process memory for the lifetime of the server
type MemoryResultStore struct {
	mu     sync.RWMutex
	prefix string
	items  map[string][]byte
}

// NewMemoryResultStore creates a new in-memory result store
func NewMemoryResultStore(prefix string) *MemoryResultStore {
	return &MemoryResultStore{
		prefix: prefix,
		items:  make(map[string][]byte),
	}
}

func (ms *MemoryResultStore) key(teamID int) string {
	return ms.prefix + entities.ResultKey(teamID)
}

// Set stores the record, replacing any previous one for the team.
// Records are serialized so callers never share memory with the store.
func (ms *MemoryResultStore) Set(ctx context.Context, result *entities.TeamResult) error {
	if result == nil {
		return fmt.Errorf("result is nil")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[ms.key(result.TeamID)] = data
	return nil
}

// Get retrieves the record of a team
func (ms *MemoryResultStore) Get(ctx context.Context, teamID int) (*entities.TeamResult, error) {
	ms.mu.RLock()
	data, exists := ms.items[ms.key(teamID)]
	ms.mu.RUnlock()

	if !exists {
		return nil, entities.ErrResultNotFound
	}
	return decodeResult(data)
}

// List retrieves the records present for the given teams
func (ms *MemoryResultStore) List(ctx context.Context, teamIDs []int) (map[int]*entities.TeamResult, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make(map[int]*entities.TeamResult, len(teamIDs))
	for _, id := range teamIDs {
		data, exists := ms.items[ms.key(id)]
		if !exists {
			continue
		}
		r, err := decodeResult(data)
		if err != nil {
			return nil, err
		}
		out[id] = r
	}
	return out, nil
}

// Ping always succeeds
func (ms *MemoryResultStore) Ping(ctx context.Context) error {
	return nil
}

func decodeResult(data []byte) (*entities.TeamResult, error) {
	var r entities.TeamResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &r, nil
}

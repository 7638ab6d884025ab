package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/oncovoice/internal/domain/entities"
	"github.com/johnquangdev/oncovoice/pkg/config"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// RedisResultStore stores each team's record as a JSON string under <prefix>team-<id>
type RedisResultStore struct {
	client *redis.Client
	prefix string
}

// NewRedisResultStore creates a Redis-backed result store
func NewRedisResultStore(client *redis.Client, prefix string) *RedisResultStore {
	return &RedisResultStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisResultStore) key(teamID int) string {
	return s.prefix + entities.ResultKey(teamID)
}

// Set writes the record without expiry
func (s *RedisResultStore) Set(ctx context.Context, result *entities.TeamResult) error {
	if result == nil {
		return fmt.Errorf("result is nil")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := s.client.Set(ctx, s.key(result.TeamID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write result for team %d: %w", result.TeamID, err)
	}
	return nil
}

// Get reads a team's record
func (s *RedisResultStore) Get(ctx context.Context, teamID int) (*entities.TeamResult, error) {
	data, err := s.client.Get(ctx, s.key(teamID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entities.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to read result for team %d: %w", teamID, err)
	}
	return decodeResult(data)
}

// List reads the records of the given teams in a single MGET
func (s *RedisResultStore) List(ctx context.Context, teamIDs []int) (map[int]*entities.TeamResult, error) {
	out := make(map[int]*entities.TeamResult, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(teamIDs))
	for i, id := range teamIDs {
		keys[i] = s.key(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		r, err := decodeResult([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("team %d: %w", teamIDs[i], err)
		}
		out[teamIDs[i]] = r
	}
	return out, nil
}

// Ping checks the Redis connection
func (s *RedisResultStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

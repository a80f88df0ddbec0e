package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every redis key this program writes.
const KeyPrefix = "draftwatch"

// RedisStateKey is the key holding a league's draft state for one season.
// MFL reuses league ids across seasons.
func RedisStateKey(season, leagueID string) string {
	return fmt.Sprintf("%s:%s:%s:draft_state", KeyPrefix, season, leagueID)
}

// RedisStore keeps draft state as a JSON document under a single redis key,
// for deployments where overlapping runs do not share a filesystem.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

func NewRedisStore(client redis.UniversalClient, season, leagueID string) *RedisStore {
	return &RedisStore{client: client, key: RedisStateKey(season, leagueID)}
}

func (s *RedisStore) Location() string {
	return "redis://" + s.key
}

func (s *RedisStore) Load(ctx context.Context) (LoadResult, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Absent(), nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read draft state %s: %w", s.key, err)
	}

	state := NewState()
	if err := json.Unmarshal(b, state); err != nil {
		return LoadResult{}, fmt.Errorf("%w: %s: %v", ErrCorruptState, s.key, err)
	}
	return Found(state), nil
}

func (s *RedisStore) Save(ctx context.Context, state *State) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal draft state: %w", err)
	}
	if err := s.client.Set(ctx, s.key, b, 0).Err(); err != nil {
		return fmt.Errorf("failed to save draft state: %w", err)
	}
	return nil
}

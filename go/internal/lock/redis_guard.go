package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultLease is how long a redis lock survives a crashed holder.
const DefaultLease = 30 * time.Minute

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLockKey is the lock key for a league season whose state lives in redis.
func RedisLockKey(season, leagueID string) string {
	return fmt.Sprintf("draftwatch:%s:%s:lock", season, leagueID)
}

// RedisGuard is a lease-based lock on a single redis key.
type RedisGuard struct {
	client     redis.UniversalClient
	key        string
	timeout    time.Duration
	lease      time.Duration
	retryDelay time.Duration
}

func NewRedisGuard(client redis.UniversalClient, key string, timeout time.Duration) *RedisGuard {
	lease := DefaultLease
	if timeout > lease {
		lease = timeout
	}
	return &RedisGuard{
		client:     client,
		key:        key,
		timeout:    timeout,
		lease:      lease,
		retryDelay: DefaultRetryDelay,
	}
}

func (g *RedisGuard) Scope() string {
	return "redis://" + g.key
}

func (g *RedisGuard) Acquire(ctx context.Context) (ReleaseFunc, error) {
	waitCtx, cancel := waitContext(ctx, g.timeout)
	defer cancel()

	token := uuid.NewString()
	for {
		ok, err := g.client.SetNX(waitCtx, g.key, token, g.lease).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("failed to lock %s: %w", g.key, err)
		}
		if ok {
			break
		}

		select {
		case <-waitCtx.Done():
			if timedOut(ctx, waitCtx) {
				return nil, fmt.Errorf("%w: %s after %s", ErrLocked, g.key, g.timeout)
			}
			return nil, fmt.Errorf("failed to lock %s: %w", g.key, ctx.Err())
		case <-time.After(g.retryDelay):
		}
	}

	log.Ctx(ctx).Debug().Str("lock", g.key).Msg("acquired lock")

	return func() error {
		// the run's ctx may already be cancelled; release regardless
		released, err := releaseScript.Run(context.WithoutCancel(ctx), g.client, []string{g.key}, token).Int()
		if err != nil {
			return fmt.Errorf("failed to unlock %s: %w", g.key, err)
		}
		if released == 0 {
			log.Ctx(ctx).Warn().Str("lock", g.key).Msg("lock lease expired before release")
		}
		return nil
	}, nil
}

package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingKeyPattern = "pending:action:%s"

// RedisStore persists pending actions in Redis with native TTL expiry. It is
// the backend to use when more than one engine instance serves the same users:
// GETDEL keeps Pop atomic across processes.
type RedisStore struct {
	client redis.Cmdable
	log    *slog.Logger
	now    func() time.Time
}

// NewRedisStore initializes a Redis-backed Store implementation.
func NewRedisStore(client redis.Cmdable, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStore{
		client: client,
		log:    log,
		now:    time.Now,
	}
}

// Save replaces any existing entry for key, letting Redis expire it after ttl.
func (s *RedisStore) Save(ctx context.Context, key string, action Action, ttl time.Duration) error {
	now := s.now()
	action.CreatedAt = now
	action.ExpiresAt = now.Add(ttl)

	data, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("encode pending action: %w", err)
	}

	if err := s.client.Set(ctx, redisPendingKey(key), data, ttl).Err(); err != nil {
		s.log.Error("failed to save pending action", "user_key", key, "error", err)
		return fmt.Errorf("save pending action: %w", err)
	}

	return nil
}

// Pop atomically removes and returns the entry for key. Entries Redis has
// already expired are indistinguishable from entries that never existed.
func (s *RedisStore) Pop(ctx context.Context, key string) (Action, error) {
	data, err := s.client.GetDel(ctx, redisPendingKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Action{}, ErrNoPending
		}

		s.log.Error("failed to pop pending action", "user_key", key, "error", err)
		return Action{}, fmt.Errorf("pop pending action: %w", err)
	}

	var action Action
	if err := json.Unmarshal(data, &action); err != nil {
		s.log.Error("failed to decode pending action", "user_key", key, "error", err)
		return Action{}, ErrNoPending
	}

	// Redis expiry normally handles this; the check covers clock drift
	// between the writer and Redis.
	if !s.now().Before(action.ExpiresAt) {
		return Action{}, ErrNoPending
	}

	return action, nil
}

func redisPendingKey(userKey string) string {
	return fmt.Sprintf(pendingKeyPattern, userKey)
}

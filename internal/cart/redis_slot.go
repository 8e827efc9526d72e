package cart

import (
	"context"
	"time"

	pkgredis "github.com/merawaalameetha/meetha-backend/pkg/redis"
)

// SlotRedis names the Redis-backed slot in logs and metrics.
const SlotRedis = "redis"

type redisSlotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartSlotKey(slot, session string) string
}

// RedisSlot keeps snapshots under meetha:cart:<StorageName>:<session>. Keys expire
// after ttl of inactivity; eviction destroys the cart.
type RedisSlot struct {
	store redisSlotStore
	ttl   time.Duration
}

// NewRedisSlot builds a slot on top of the shared Redis client.
func NewRedisSlot(store redisSlotStore, ttl time.Duration) *RedisSlot {
	return &RedisSlot{store: store, ttl: ttl}
}

func (s *RedisSlot) Name() string {
	return SlotRedis
}

func (s *RedisSlot) Load(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.store.Get(ctx, s.store.CartSlotKey(StorageName, key))
	if err != nil {
		if pkgredis.IsNil(err) {
			return nil, ErrSlotEmpty
		}
		return nil, err
	}
	return []byte(raw), nil
}

func (s *RedisSlot) Save(ctx context.Context, key string, payload []byte) error {
	return s.store.Set(ctx, s.store.CartSlotKey(StorageName, key), string(payload), s.ttl)
}

func (s *RedisSlot) Delete(ctx context.Context, key string) error {
	return s.store.Del(ctx, s.store.CartSlotKey(StorageName, key))
}

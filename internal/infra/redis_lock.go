package infra

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrLockBusy is returned when the lock is still held after every retry.
var ErrLockBusy = errors.New("recurso ocupado, tente novamente")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker hands out short-lived mutual exclusion across instances.
type RedisLocker struct {
	rdb     *redis.Client
	ttl     time.Duration
	retries int
	backoff time.Duration
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: 5 * time.Second, retries: 3, backoff: 100 * time.Millisecond}
}

// Lock acquires key or gives up with ErrLockBusy. The returned func releases it.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	key = "lock:" + key
	token := uuid.NewString()

	for attempt := 0; attempt < l.retries; attempt++ {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("lock: redis error")
		}
		if ok {
			return func() {
				if err := releaseScript.Run(context.Background(), l.rdb, []string{key}, token).Err(); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("lock: release failed")
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.backoff):
		}
	}
	return nil, ErrLockBusy
}

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "cart:"

// RedisStore keeps each cart as one JSON value with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Load decodes the stored cart once. A payload that does not decode, or
// lines that break the cart rules, are dropped and logged.
func (s *RedisStore) Load(ctx context.Context, cartID string) ([]Item, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+cartID).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Str("cart_id", cartID).Msg("cart: discarding undecodable cart")
		_ = s.rdb.Del(ctx, redisKeyPrefix+cartID).Err()
		return []Item{}, nil
	}

	clean := items[:0]
	for _, it := range items {
		if it.valid() {
			clean = append(clean, it)
			continue
		}
		log.Warn().Str("cart_id", cartID).Str("item_id", it.ID).Msg("cart: dropping invalid line")
	}
	return clean, nil
}

func (s *RedisStore) Save(ctx context.Context, cartID string, items []Item) error {
	if len(items) == 0 {
		return s.Delete(ctx, cartID)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKeyPrefix+cartID, data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, cartID string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+cartID).Err()
}

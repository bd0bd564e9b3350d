package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RelayChannel is the Redis pub/sub channel shared by every instance.
const RelayChannel = "events:storefront"

type envelope struct {
	Origin string `json:"origin"`
	Event
}

// RedisRelay publishes locally and fans events out to other instances
// through Redis pub/sub. Run must be started for remote events to arrive.
type RedisRelay struct {
	*Bus
	rdb    *redis.Client
	origin string
}

func NewRedisRelay(rdb *redis.Client, bus *Bus) *RedisRelay {
	return &RedisRelay{Bus: bus, rdb: rdb, origin: uuid.NewString()}
}

func (r *RedisRelay) Publish(ctx context.Context, topic Topic) {
	r.Bus.Publish(ctx, topic)

	data, err := json.Marshal(envelope{Origin: r.origin, Event: Event{Topic: topic, At: time.Now().UTC()}})
	if err != nil {
		return
	}
	if err := r.rdb.Publish(ctx, RelayChannel, data).Err(); err != nil {
		log.Warn().Err(err).Str("topic", string(topic)).Msg("events: relay publish failed")
	}
}

// Run forwards events published by other instances until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) {
	sub := r.rdb.Subscribe(ctx, RelayChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Error().Err(err).Msg("events: bad relay payload")
				continue
			}
			if env.Origin == r.origin {
				continue
			}
			r.Bus.dispatch(env.Event)
		}
	}
}

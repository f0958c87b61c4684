package events

import (
	"context"
	"encoding/json"

	"portfolio/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RelayChannel is the redis pub/sub channel refresh events travel on.
const RelayChannel = "portfolio:refresh"

type relayMessage struct {
	Name   Name   `json:"name"`
	Origin string `json:"origin"`
}

// RedisRelay fans refresh events out to every instance sharing a redis
// server. Local handlers run first; other instances re-emit on receipt.
type RedisRelay struct {
	bus    *Bus
	rdb    *redis.Client
	origin string
	log    *zap.Logger
}

func NewRedisRelay(bus *Bus, rdb *redis.Client, l *zap.Logger) *RedisRelay {
	return &RedisRelay{
		bus:    bus,
		rdb:    rdb,
		origin: uuid.NewString(),
		log:    logger.Module(l, "events"),
	}
}

// Emit runs local handlers and publishes the event for other instances.
// A publish failure is logged; local delivery has already happened.
func (r *RedisRelay) Emit(ctx context.Context, name Name) {
	r.bus.Emit(ctx, name)

	payload, err := json.Marshal(relayMessage{Name: name, Origin: r.origin})
	if err != nil {
		return
	}
	if err := r.rdb.Publish(ctx, RelayChannel, payload).Err(); err != nil {
		r.log.Warn("Failed to relay refresh event", zap.String("event", string(name)), zap.Error(err))
	}
}

func (r *RedisRelay) Subscribe(name Name, h Handler) func() {
	return r.bus.Subscribe(name, h)
}

// Run re-emits events published by other instances until ctx is done.
// ready, when non-nil, is closed once the redis subscription is active.
func (r *RedisRelay) Run(ctx context.Context, ready chan<- struct{}) error {
	pubsub := r.rdb.Subscribe(ctx, RelayChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}
	r.log.Info("Relaying refresh events", zap.String("channel", RelayChannel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m relayMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				r.log.Warn("Relay message parse error", zap.Error(err))
				continue
			}
			if m.Origin == r.origin {
				continue
			}
			r.bus.Emit(ctx, m.Name)
		}
	}
}

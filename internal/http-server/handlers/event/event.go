package event

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"

	"github.com/fentashot/casino/internal/lib/logger/sl"
)

// Message is the payload relayed to the ws hub: subscribers pick a
// channel, the hub fans events out per channel.
type Message struct {
	Channel string                 `json:"channel"`
	Event   string                 `json:"event"`
	Data    map[string]interface{} `json:"data"`
}

// RedisEvent publishes hub messages over a Redis pub/sub channel so
// the api and ws binaries stay decoupled.
type RedisEvent struct {
	log    *slog.Logger
	client *redis.Client
	pubsub string
}

func NewRedisEvent(log *slog.Logger, client *redis.Client, pubsubChannel string) *RedisEvent {
	return &RedisEvent{
		log:    log,
		client: client,
		pubsub: pubsubChannel,
	}
}

func (p *RedisEvent) TriggerEvent(ctx context.Context, channel string, eventName string, data map[string]interface{}) error {
	payload, err := json.Marshal(Message{
		Channel: channel,
		Event:   eventName,
		Data:    data,
	})
	if err != nil {
		p.log.Error("failed to marshal event", sl.Err(err))

		return err
	}

	if err = p.client.Publish(ctx, p.pubsub, payload).Err(); err != nil {
		p.log.Error("failed to publish event", sl.Err(err))

		return err
	}

	return nil
}

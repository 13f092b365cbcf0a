package handler

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/fentashot/casino/internal/http-server/handlers/event"
	"github.com/fentashot/casino/internal/lib/logger/sl"
)

// StartRedisSubscriber relays events published by the api binary into
// the hub, so websocket clients see spins and balance changes live.
func StartRedisSubscriber(ctx context.Context, client *redis.Client, pubsubChannel string, hub *Hub) {
	sub := client.Subscribe(ctx, pubsubChannel)
	ch := sub.Channel()

	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()

				return
			case msg := <-ch:
				if msg == nil {
					continue
				}

				var message event.Message

				if err := json.Unmarshal([]byte(msg.Payload), &message); err != nil {
					hub.log.Error("failed to unmarshal event", sl.Err(err))

					continue
				}

				hub.Broadcast <- message
			}
		}
	}()
}

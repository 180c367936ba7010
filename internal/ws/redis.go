package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventsChannel carries RunEvent payloads between server instances.
const EventsChannel = "trajectory_events"

// Publisher announces completed runs. With a nil redis client it delivers
// straight to the local hub.
type Publisher struct {
	rdb *redis.Client
	hub *Hub
}

func NewPublisher(rdb *redis.Client, hub *Hub) *Publisher {
	return &Publisher{rdb: rdb, hub: hub}
}

func (p *Publisher) PublishRun(ctx context.Context, ev RunEvent) error {
	ev.Type = TypeRun
	if p.rdb == nil {
		p.hub.BroadcastToTable(ev.Table, ev)
		return nil
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, EventsChannel, data).Err()
}

// StartRunEventSubscriber relays run events from redis to watching clients
// until ctx is cancelled.
func StartRunEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		hub.log.Info("[WS] redis client not set; run event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, EventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		hub.log.Info("[WS] run event subscriber started", zap.String("channel", EventsChannel))
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				hub.relay([]byte(msg.Payload))
			}
		}
	}()
}

func (h *Hub) relay(payload []byte) {
	var ev RunEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		h.log.Warn("[WS] invalid event payload", zap.Error(err))
		return
	}
	if ev.Type != TypeRun || ev.Table == "" {
		h.log.Debug("[WS] ignoring event", zap.String("type", ev.Type))
		return
	}
	h.BroadcastToTable(ev.Table, ev)
}

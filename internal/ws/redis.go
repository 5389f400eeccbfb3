package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/gameglass/internal/glass"
	"github.com/redis/go-redis/v9"
)

// EventsChannel carries scene events and popups between server instances.
const EventsChannel = "glass_events"

const publishBuffer = 64

// EventBus fans scene events and popup presentations out to viewers. With a
// Redis client every message goes through EventsChannel so viewers attached
// to any instance see it; without one messages go straight to the local hub.
type EventBus struct {
	rdb     *redis.Client
	hub     *Hub
	pending chan []byte
}

// NewEventBus creates a bus. rdb may be nil.
func NewEventBus(rdb *redis.Client, hub *Hub) *EventBus {
	return &EventBus{
		rdb:     rdb,
		hub:     hub,
		pending: make(chan []byte, publishBuffer),
	}
}

// Publish queues a message without blocking the caller.
func (b *EventBus) Publish(msgType string, data interface{}) {
	payload, err := encode(msgType, data)
	if err != nil {
		log.Printf("[WS] Error marshaling %s message: %v", msgType, err)
		return
	}

	if b.rdb == nil {
		b.hub.BroadcastRaw(payload)
		return
	}

	select {
	case b.pending <- payload:
	default:
		log.Printf("[REDIS] Publish queue full, delivering %s locally", msgType)
		b.hub.BroadcastRaw(payload)
	}
}

// SceneEvents adapts the bus to the simulation's event sink.
func (b *EventBus) SceneEvents() glass.EventSink {
	return glass.EventSinkFunc(func(e glass.Event) {
		b.Publish(TypeSceneEvent, e)
	})
}

// Run publishes queued messages to Redis and relays everything received on
// EventsChannel to the local hub. It returns immediately without Redis.
func (b *EventBus) Run(ctx context.Context) {
	if b.rdb == nil {
		log.Println("[WS] Redis client not set; events are delivered to local viewers only")
		return
	}

	pubsub := b.rdb.Subscribe(ctx, EventsChannel)
	defer pubsub.Close()
	ch := pubsub.Channel()
	log.Printf("[WS] %s subscriber started", EventsChannel)

	for {
		select {
		case <-ctx.Done():
			return

		case payload := <-b.pending:
			if err := b.rdb.Publish(ctx, EventsChannel, payload).Err(); err != nil {
				log.Printf("[REDIS] Publish to %s failed, delivering locally: %v", EventsChannel, err)
				b.hub.BroadcastRaw(payload)
			}

		case msg, ok := <-ch:
			if !ok {
				return
			}
			var envelope Message
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil || envelope.Type == "" {
				log.Printf("[WS] invalid event payload: %s", msg.Payload)
				continue
			}
			b.hub.BroadcastRaw([]byte(msg.Payload))
		}
	}
}

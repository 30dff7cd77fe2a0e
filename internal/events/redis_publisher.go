package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher mirrors dispatched events onto a Redis channel so external
// consumers can follow the task stream. Publish failures are logged and
// swallowed; event delivery is best-effort and must never fail the
// originating operation.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher builds a publisher for the given channel.
func NewRedisPublisher(client *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, logger: logger}
}

// Handle serializes the event and publishes it. It satisfies EventHandler so
// it can be subscribed to every event type on a Dispatcher.
func (p *RedisPublisher) Handle(ctx context.Context, event Event) error {
	if p.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal event", zap.Error(err), zap.String("event_id", event.ID))
		return nil
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.logger.Warn("publish event to redis",
			zap.Error(err),
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
		)
	}
	return nil
}

// SubscribeAll registers the publisher for every known event type.
func (p *RedisPublisher) SubscribeAll(dispatcher Dispatcher) {
	for _, eventType := range []EventType{
		EventTaskCreated,
		EventTaskUpdated,
		EventTaskStatusChanged,
		EventTaskDeleted,
		EventEmployeeAdded,
		EventEmployeeUpdated,
		EventEmployeeRemoved,
	} {
		dispatcher.Subscribe(eventType, p.Handle)
	}
}

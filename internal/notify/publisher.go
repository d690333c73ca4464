package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
)

// RedisPublisher is an audit.Sink that queues patient notifications on a
// Redis list. Events that do not concern the patient are ignored.
type RedisPublisher struct {
	client *redis.Client
	queue  string
}

func NewRedisPublisher(client *redis.Client, queue string) *RedisPublisher {
	return &RedisPublisher{client: client, queue: queue}
}

var _ audit.Sink = (*RedisPublisher)(nil)

func (p *RedisPublisher) Handle(ctx context.Context, ev audit.Event) error {
	if _, ok := TemplateFor(ev.Action); !ok || ev.EntityID == nil {
		return nil
	}

	return p.Publish(ctx, Message{
		ID:            uuid.NewString(),
		Kind:          ev.Action,
		ClinicID:      ev.ClinicID,
		AppointmentID: *ev.EntityID,
		OccurredAt:    ev.OccurredAt,
	})
}

func (p *RedisPublisher) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := p.client.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}

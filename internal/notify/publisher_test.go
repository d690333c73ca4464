package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
)

const testQueue = "clinic:notifications"

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisPublisherQueuesPatientEvents(t *testing.T) {
	mr, client := newRedis(t)
	p := NewRedisPublisher(client, testQueue)

	id := uint(12)
	at := time.Date(2026, 10, 15, 11, 0, 0, 0, time.UTC)
	err := p.Handle(context.Background(), audit.Event{
		ClinicID:   3,
		Action:     audit.ActionAppointmentBooked,
		Entity:     "appointment",
		EntityID:   &id,
		OccurredAt: at,
	})
	require.NoError(t, err)

	items, err := mr.List(testQueue)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(items[0]), &msg))
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, audit.ActionAppointmentBooked, msg.Kind)
	assert.Equal(t, uint(3), msg.ClinicID)
	assert.Equal(t, uint(12), msg.AppointmentID)
	assert.True(t, at.Equal(msg.OccurredAt))
}

func TestRedisPublisherIgnoresInternalEvents(t *testing.T) {
	mr, client := newRedis(t)
	p := NewRedisPublisher(client, testQueue)
	id := uint(1)

	require.NoError(t, p.Handle(context.Background(), audit.Event{Action: audit.ActionAppointmentPaid, EntityID: &id}))
	require.NoError(t, p.Handle(context.Background(), audit.Event{Action: audit.ActionAppointmentCompleted, EntityID: &id}))
	require.NoError(t, p.Handle(context.Background(), audit.Event{Action: audit.ActionAppointmentBooked}))

	assert.False(t, mr.Exists(testQueue))
}

func TestRedisPublisherRedisDown(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()
	id := uint(1)

	err := NewRedisPublisher(client, testQueue).Handle(context.Background(), audit.Event{
		Action:   audit.ActionAppointmentCancelled,
		EntityID: &id,
	})

	assert.Error(t, err)
}

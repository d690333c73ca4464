package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	"github.com/BruksfildServices01/clinic-booking/internal/domain/appointment/appointmenttest"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

type sent struct {
	to, template, lang string
	params             []string
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []sent
}

func (s *fakeSender) SendTemplate(_ context.Context, to, name, lang string, params []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, sent{to, name, lang, params})
	return "wamid.1", nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func seedAppointment(t *testing.T) (*appointmenttest.Memory, models.Clinic, models.Appointment) {
	t.Helper()
	repo := appointmenttest.NewMemory()
	clinic := repo.AddClinic(models.Clinic{Name: "Clínica Centro", Slug: "centro", Timezone: "America/Sao_Paulo"})
	patient, err := repo.GetOrCreatePatient(context.Background(), clinic.ID, "Ana Lima", "5511999990000", "")
	require.NoError(t, err)

	ap := repo.AddAppointment(models.Appointment{
		ClinicID:   clinic.ID,
		PatientID:  patient.ID,
		Date:       "2026-10-19",
		StartTime:  time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), // 09:00 in São Paulo
		EndTime:    time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC),
		Status:     "PENDING",
		BookingRef: "261019-7KQ2MX",
	})
	return repo, clinic, ap
}

func payload(t *testing.T, msg Message) string {
	t.Helper()
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	return string(b)
}

func TestConsumerSendsTemplate(t *testing.T) {
	_, client := newRedis(t)
	repo, clinic, ap := seedAppointment(t)
	sender := &fakeSender{}
	c := NewConsumer(client, testQueue, repo, sender, "pt_BR", nil)

	c.Process(context.Background(), payload(t, Message{
		ID: "m1", Kind: audit.ActionAppointmentBooked, ClinicID: clinic.ID, AppointmentID: ap.ID,
	}))

	require.Len(t, sender.sent, 1)
	got := sender.sent[0]
	assert.Equal(t, "5511999990000", got.to)
	assert.Equal(t, "appointment_booked", got.template)
	assert.Equal(t, "pt_BR", got.lang)
	assert.Equal(t, []string{"Ana Lima", "Clínica Centro", "19/10/2026", "09:00", "261019-7KQ2MX"}, got.params)
}

func TestConsumerExpiredUsesCancelledTemplate(t *testing.T) {
	_, client := newRedis(t)
	repo, clinic, ap := seedAppointment(t)
	sender := &fakeSender{}

	NewConsumer(client, testQueue, repo, sender, "pt_BR", nil).Process(context.Background(), payload(t, Message{
		Kind: audit.ActionAppointmentExpired, ClinicID: clinic.ID, AppointmentID: ap.ID,
	}))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "appointment_cancelled", sender.sent[0].template)
}

func TestConsumerRequeuesFailedSend(t *testing.T) {
	mr, client := newRedis(t)
	repo, clinic, ap := seedAppointment(t)
	sender := &fakeSender{err: errors.New("rate limited")}
	c := NewConsumer(client, testQueue, repo, sender, "pt_BR", nil)

	msg := Message{ID: "m1", Kind: audit.ActionAppointmentBooked, ClinicID: clinic.ID, AppointmentID: ap.ID}
	c.Process(context.Background(), payload(t, msg))

	items, err := mr.List(testQueue)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var requeued Message
	require.NoError(t, json.Unmarshal([]byte(items[0]), &requeued))
	assert.Equal(t, 1, requeued.Attempts)

	// last attempt is not requeued
	mr.Del(testQueue)
	msg.Attempts = MaxAttempts - 1
	c.Process(context.Background(), payload(t, msg))
	assert.False(t, mr.Exists(testQueue))
}

func TestConsumerDropsUnknownAppointment(t *testing.T) {
	mr, client := newRedis(t)
	repo, clinic, _ := seedAppointment(t)
	sender := &fakeSender{}
	c := NewConsumer(client, testQueue, repo, sender, "pt_BR", nil)

	c.Process(context.Background(), payload(t, Message{Kind: audit.ActionAppointmentBooked, ClinicID: clinic.ID, AppointmentID: 999}))
	c.Process(context.Background(), "{not json")

	assert.Zero(t, sender.count())
	assert.False(t, mr.Exists(testQueue))
}

// flakyLoader fails every lookup with a storage error.
type flakyLoader struct{ AppointmentLoader }

func (flakyLoader) GetClinicByID(context.Context, uint) (*models.Clinic, error) {
	return nil, errors.New("connection refused")
}

func TestConsumerRequeuesOnStorageError(t *testing.T) {
	mr, client := newRedis(t)
	sender := &fakeSender{}
	c := NewConsumer(client, testQueue, flakyLoader{}, sender, "pt_BR", nil)

	c.Process(context.Background(), payload(t, Message{ID: "m1", Kind: audit.ActionAppointmentBooked, ClinicID: 1, AppointmentID: 1}))

	items, err := mr.List(testQueue)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Zero(t, sender.count())
}

func TestConsumerRunDrainsQueue(t *testing.T) {
	_, client := newRedis(t)
	repo, clinic, ap := seedAppointment(t)
	sender := &fakeSender{}
	c := NewConsumer(client, testQueue, repo, sender, "pt_BR", nil)
	c.pollWait = time.Second

	pub := NewRedisPublisher(client, testQueue)
	require.NoError(t, pub.Publish(context.Background(), Message{
		Kind: audit.ActionAppointmentConfirmed, ClinicID: clinic.ID, AppointmentID: ap.ID,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	assert.Eventually(t, func() bool { return sender.count() == 1 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

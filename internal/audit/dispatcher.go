package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Actions dispatched by the booking flow.
const (
	ActionAppointmentBooked    = "appointment_booked"
	ActionAppointmentConfirmed = "appointment_confirmed"
	ActionAppointmentCompleted = "appointment_completed"
	ActionAppointmentCancelled = "appointment_cancelled"
	ActionAppointmentPaid      = "appointment_paid"
	ActionAppointmentExpired   = "appointment_expired"
)

type Event struct {
	ClinicID   uint
	UserID     *uint
	Action     string
	Entity     string
	EntityID   *uint
	Metadata   any
	OccurredAt time.Time
}

// Sink receives every dispatched event on the worker goroutine.
type Sink interface {
	Handle(ctx context.Context, ev Event) error
}

type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Handle(ctx context.Context, ev Event) error { return f(ctx, ev) }

const queueSize = 100

// Dispatcher decouples side effects (audit rows, notifications) from the
// request. Events are delivered after the caller's transaction commits and a
// failing sink never reaches the caller.
type Dispatcher struct {
	sinks []Sink
	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, queueSize), // buffer seguro
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.Handle(ctx, ev); err != nil {
				log.Error().Err(err).
					Str("action", ev.Action).
					Uint("clinic_id", ev.ClinicID).
					Msg("audit sink failed")
			}
			cancel()
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos (nunca quebrar API)
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits until the queue is drained.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

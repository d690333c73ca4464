package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
)

const MaxAttempts = 3

type Sender interface {
	SendTemplate(ctx context.Context, to, templateName, languageCode string, parameters []string) (string, error)
}

// AppointmentLoader is the slice of appointment.Repository the consumer needs.
type AppointmentLoader interface {
	GetClinicByID(ctx context.Context, id uint) (*models.Clinic, error)
	GetAppointment(ctx context.Context, clinicID, id uint) (*models.Appointment, error)
}

type Consumer struct {
	client   *redis.Client
	queue    string
	loader   AppointmentLoader
	sender   Sender
	lang     string
	metrics  *observability.BookingMetrics
	pollWait time.Duration
}

func NewConsumer(
	client *redis.Client,
	queue string,
	loader AppointmentLoader,
	sender Sender,
	lang string,
	metrics *observability.BookingMetrics,
) *Consumer {
	return &Consumer{
		client:   client,
		queue:    queue,
		loader:   loader,
		sender:   sender,
		lang:     lang,
		metrics:  metrics,
		pollWait: 5 * time.Second,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log.Info().Str("queue", c.queue).Msg("notification consumer started")

	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := c.client.BLPop(ctx, c.pollWait, c.queue).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("notification queue read failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		// res = [queue, payload]
		if len(res) == 2 {
			c.Process(ctx, res[1])
		}
	}
}

// Process handles one raw queue payload. Failed sends are requeued until
// MaxAttempts; undecodable payloads and missing appointments are dropped.
func (c *Consumer) Process(ctx context.Context, raw string) {
	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		log.Error().Err(err).Msg("dropping malformed notification")
		return
	}

	logger := log.With().
		Str("message_id", msg.ID).
		Str("kind", msg.Kind).
		Uint("appointment_id", msg.AppointmentID).
		Logger()

	err := c.deliver(ctx, msg)
	if err == nil {
		c.metrics.ObserveNotification(msg.Kind, "sent")
		logger.Info().Msg("notification sent")
		return
	}

	var perm permanentError
	if errors.As(err, &perm) {
		c.metrics.ObserveNotification(msg.Kind, "dropped")
		logger.Warn().Err(err).Msg("notification dropped")
		return
	}

	msg.Attempts++
	if msg.Attempts >= MaxAttempts {
		c.metrics.ObserveNotification(msg.Kind, "failed")
		logger.Error().Err(err).Int("attempts", msg.Attempts).Msg("notification failed, giving up")
		return
	}

	c.metrics.ObserveNotification(msg.Kind, "retry")
	logger.Warn().Err(err).Int("attempts", msg.Attempts).Msg("notification failed, requeueing")

	data, _ := json.Marshal(msg)
	if err := c.client.RPush(ctx, c.queue, data).Err(); err != nil {
		logger.Error().Err(err).Msg("requeue failed")
	}
}

type permanentError struct{ error }

func (c *Consumer) deliver(ctx context.Context, msg Message) error {
	template, ok := TemplateFor(msg.Kind)
	if !ok {
		return permanentError{fmt.Errorf("unknown kind %q", msg.Kind)}
	}

	clinic, err := c.loader.GetClinicByID(ctx, msg.ClinicID)
	if err != nil {
		return classifyLoadError(err)
	}
	ap, err := c.loader.GetAppointment(ctx, msg.ClinicID, msg.AppointmentID)
	if err != nil {
		return classifyLoadError(err)
	}
	if ap.Patient.Phone == "" {
		return permanentError{fmt.Errorf("appointment %d has no patient phone", ap.ID)}
	}

	_, err = c.sender.SendTemplate(ctx, ap.Patient.Phone, template, c.lang, TemplateParams(clinic, ap))
	return err
}

// classifyLoadError drops messages whose rows are gone; anything else (a
// database outage, a timeout) goes back to the queue.
func classifyLoadError(err error) error {
	if errors.Is(err, domain.ErrAppointmentNotFound) || errors.Is(err, domain.ErrClinicNotFound) {
		return permanentError{err}
	}
	return err
}

// TemplateParams: nome, clínica, data, hora, referência.
func TemplateParams(clinic *models.Clinic, ap *models.Appointment) []string {
	start := timezone.In(ap.StartTime, clinic.Timezone)
	return []string{
		ap.Patient.Name,
		clinic.Name,
		start.Format("02/01/2006"),
		start.Format(timezone.ClockLayout),
		ap.BookingRef,
	}
}

// LogSender stands in for WhatsApp when it is not configured.
type LogSender struct{}

func (LogSender) SendTemplate(_ context.Context, to, templateName, languageCode string, parameters []string) (string, error) {
	log.Info().
		Str("to", to).
		Str("template", templateName).
		Str("lang", languageCode).
		Strs("params", parameters).
		Msg("whatsapp disabled, notification logged")
	return "", nil
}

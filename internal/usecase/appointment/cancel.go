package appointment

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
)

// Cancellation sources, used as the metrics label.
const (
	SourceStaff   = "staff"
	SourcePatient = "patient"
)

type CancelAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	clock   domain.Clock
	metrics *observability.BookingMetrics
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *CancelAppointment) WithMetrics(m *observability.BookingMetrics) *CancelAppointment {
	uc.metrics = m
	return uc
}

// Execute cancels an appointment on behalf of clinic staff.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	userID *uint,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	return uc.cancel(ctx, clinicID, userID, SourceStaff, reason,
		func(tx domain.Repository) (*models.Appointment, error) {
			return tx.GetAppointment(ctx, clinicID, appointmentID)
		},
	)
}

// ExecuteByRef cancels on behalf of the patient. The phone must match the one
// used when booking; a mismatch looks like an unknown ref.
func (uc *CancelAppointment) ExecuteByRef(
	ctx context.Context,
	clinicID uint,
	bookingRef string,
	phone string,
	reason string,
) (*models.Appointment, error) {

	ref := domain.NormalizeBookingRef(bookingRef)

	return uc.cancel(ctx, clinicID, nil, SourcePatient, reason,
		func(tx domain.Repository) (*models.Appointment, error) {
			ap, err := tx.GetAppointmentByRef(ctx, clinicID, ref)
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(phone) == "" || ap.Patient.Phone != phone {
				return nil, domain.ErrAppointmentNotFound
			}
			return ap, nil
		},
	)
}

func (uc *CancelAppointment) cancel(
	ctx context.Context,
	clinicID uint,
	userID *uint,
	source string,
	reason string,
	find func(tx domain.Repository) (*models.Appointment, error),
) (ap *models.Appointment, err error) {

	ctx, span := tracer.Start(ctx, "appointment.cancel")
	span.SetAttributes(
		attribute.Int64("clinic.id", int64(clinicID)),
		attribute.String("cancel.source", source),
	)
	defer func() {
		uc.metrics.ObserveCancellation(source, outcome(err, "cancelled"))
		endSpan(span, err)
	}()

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockClinic(ctx, clinicID); err != nil {
			return err
		}

		found, err := find(tx)
		if err != nil {
			return err
		}

		row, err := tx.GetAppointmentRules(ctx, clinicID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if err := domain.ValidateCancellation(now, domain.RulesFromModel(row), found); err != nil {
			return err
		}
		if err := domain.Cancel(found, reason, now); err != nil {
			return err
		}
		if err := tx.UpdateAppointment(ctx, found); err != nil {
			return err
		}

		ap = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   userID,
		Action:   audit.ActionAppointmentCancelled,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"booking_ref": ap.BookingRef,
			"reason":      reason,
			"source":      source,
		},
	})

	return ap, nil
}

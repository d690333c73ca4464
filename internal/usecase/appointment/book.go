package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type BookAppointmentInput struct {
	ClinicID           uint
	DoctorProfileID    uint // 0 = clinic default
	ConsultationTypeID uint

	Date string // YYYY-MM-DD, clinic timezone
	Time string // HH:MM

	PatientName  string
	PatientPhone string
	PatientEmail string
	Notes        string
}

type BookingResult struct {
	Appointment *models.Appointment
	// CheckoutURL is set when the clinic requires payment and the gateway
	// answered. An empty URL never undoes the booking.
	CheckoutURL     string
	RequiresPayment bool
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	clock    domain.Clock
	refs     domain.RefGenerator
	metrics  *observability.BookingMetrics
	payments domain.PaymentGateway
}

func NewBookAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *BookAppointment {
	return &BookAppointment{
		repo:  repo,
		audit: audit,
		clock: clock,
		refs:  domain.NewBookingRef,
	}
}

func (uc *BookAppointment) WithRefGenerator(g domain.RefGenerator) *BookAppointment {
	uc.refs = g
	return uc
}

func (uc *BookAppointment) WithMetrics(m *observability.BookingMetrics) *BookAppointment {
	uc.metrics = m
	return uc
}

func (uc *BookAppointment) WithPayments(p domain.PaymentGateway) *BookAppointment {
	uc.payments = p
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (res *BookingResult, err error) {

	ctx, span := tracer.Start(ctx, "appointment.book")
	span.SetAttributes(
		attribute.Int64("clinic.id", int64(in.ClinicID)),
		attribute.String("booking.date", in.Date),
		attribute.String("booking.time", in.Time),
	)
	started := time.Now()
	defer func() {
		uc.metrics.ObserveBooking(outcome(err, "booked"), time.Since(started).Seconds())
		endSpan(span, err)
	}()

	// --------------------------------------------------
	// 1️⃣ Clínica, tipo de consulta e médico
	// --------------------------------------------------
	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, err
	}

	ct, err := bookableType(ctx, uc.repo, clinic.ID, in.ConsultationTypeID)
	if err != nil {
		return nil, err
	}

	doctor, err := resolveDoctor(ctx, uc.repo, clinic.ID, in.DoctorProfileID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone da clínica
	// --------------------------------------------------
	day, err := timezone.ParseDate(clinic.Timezone, in.Date)
	if err != nil {
		return nil, domain.ErrInvalidDateTime
	}
	start, err := timezone.ParseDateTime(clinic.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, domain.ErrInvalidDateTime
	}

	// --------------------------------------------------
	// 3️⃣ Transação (regenera a referência em colisão)
	// --------------------------------------------------
	var (
		ap    *models.Appointment
		rules domain.Rules
	)
	for attempt := 1; ; attempt++ {
		ap, rules, err = uc.bookOnce(ctx, clinic, ct, doctor, day, start, in)
		if !errors.Is(err, domain.ErrDuplicateBookingRef) {
			break
		}
		if attempt >= domain.MaxBookingRefAttempts {
			return nil, fmt.Errorf("book appointment: booking ref collided %d times", attempt)
		}
	}
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("booking.ref", ap.BookingRef))

	// --------------------------------------------------
	// 4️⃣ Auditoria + notificação (após commit)
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ClinicID: clinic.ID,
		Action:   audit.ActionAppointmentBooked,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"booking_ref": ap.BookingRef,
			"date":        ap.Date,
			"time":        in.Time,
		},
	})

	res = &BookingResult{Appointment: ap, RequiresPayment: rules.RequirePayment}

	// --------------------------------------------------
	// 5️⃣ Checkout (opcional)
	// --------------------------------------------------
	if rules.RequirePayment && uc.payments != nil && ap.FeeMinor > 0 {
		url, perr := uc.payments.CreateCheckout(ctx, domain.Checkout{
			ClinicID:    clinic.ID,
			BookingRef:  ap.BookingRef,
			Title:       ct.Name,
			AmountMinor: ap.FeeMinor,
			Currency:    ap.Currency,
			PayerEmail:  in.PatientEmail,
		})
		if perr != nil {
			observability.LoggerFromContext(ctx).Warn().Err(perr).
				Str("booking_ref", ap.BookingRef).
				Msg("checkout creation failed")
		} else {
			res.CheckoutURL = url
		}
	}

	return res, nil
}

func (uc *BookAppointment) bookOnce(
	ctx context.Context,
	clinic *models.Clinic,
	ct *models.ConsultationType,
	doctor *models.DoctorProfile,
	day, start time.Time,
	in BookAppointmentInput,
) (*models.Appointment, domain.Rules, error) {

	var (
		ap    *models.Appointment
		rules domain.Rules
	)

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockClinic(ctx, clinic.ID); err != nil {
			return err
		}

		windows, err := tx.ListAvailabilityWindows(ctx, clinic.ID)
		if err != nil {
			return err
		}

		duration := time.Duration(ct.DurationMin) * time.Minute
		buffer := time.Duration(clinic.BufferMinutes) * time.Minute

		slots := domain.ResolveSlots(windows, day, duration, buffer)
		if len(slots) == 0 {
			return domain.ErrDayClosed
		}

		slot, ok := domain.FindSlot(slots, start)
		if !ok {
			return domain.ErrInvalidSlot
		}

		existing, err := tx.ListBlockingForDay(ctx, clinic.ID, in.Date)
		if err != nil {
			return err
		}

		if len(domain.FilterAvailable([]domain.TimeSlot{slot}, forDoctor(existing, doctor.ID))) == 0 {
			return domain.ErrSlotNoLongerAvailable
		}

		row, err := tx.GetAppointmentRules(ctx, clinic.ID)
		if err != nil {
			return err
		}
		rules = domain.RulesFromModel(row)

		if err := domain.ValidateBookingRequest(uc.clock.Now(), rules, slot, domain.CountBlocking(existing)); err != nil {
			return err
		}

		patient, err := tx.GetOrCreatePatient(ctx, clinic.ID, in.PatientName, in.PatientPhone, in.PatientEmail)
		if err != nil {
			return err
		}

		ap = &models.Appointment{
			ClinicID:           clinic.ID,
			PatientID:          patient.ID,
			DoctorProfileID:    doctor.ID,
			ConsultationTypeID: ct.ID,
			Date:               in.Date,
			StartTime:          slot.Start,
			EndTime:            slot.End,
			Status:             string(domain.InitialStatus()),
			BookingRef:         uc.refs(day),
			FeeMinor:           ct.FeeMinor,
			Currency:           ct.Currency,
			PaymentStatus:      domain.PaymentUnpaid,
			Notes:              in.Notes,
		}

		switch err := tx.CreateAppointment(ctx, ap); {
		case errors.Is(err, domain.ErrActiveSlotTaken):
			return domain.ErrSlotNoLongerAvailable
		case err != nil:
			return err
		}

		ap.Patient = *patient
		ap.ConsultationType = *ct
		ap.DoctorProfile = *doctor
		return nil
	})

	return ap, rules, err
}

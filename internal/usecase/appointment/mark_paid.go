package appointment

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
)

// MarkPaid records a gateway payment against its booking. The appointment
// status is left alone; staff still confirm it.
type MarkPaid struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	payments domain.PaymentGateway
}

func NewMarkPaid(
	repo domain.Repository,
	audit *audit.Dispatcher,
	payments domain.PaymentGateway,
) *MarkPaid {
	return &MarkPaid{
		repo:     repo,
		audit:    audit,
		payments: payments,
	}
}

// Execute returns nil, nil when the payment is not approved yet.
func (uc *MarkPaid) Execute(
	ctx context.Context,
	paymentID string,
) (*models.Appointment, error) {

	res, err := uc.payments.VerifyPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("verify payment %s: %w", paymentID, err)
	}
	if !res.Approved {
		return nil, nil
	}

	var (
		ap      *models.Appointment
		changed bool
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		found, err := tx.GetAppointmentByRef(ctx, res.ClinicID, res.BookingRef)
		if err != nil {
			return err
		}
		ap = found

		if found.PaymentStatus == domain.PaymentPaid {
			return nil
		}

		found.PaymentStatus = domain.PaymentPaid
		found.PaymentID = res.PaymentID
		changed = true
		return tx.UpdateAppointment(ctx, found)
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		return ap, nil
	}

	if domain.Status(ap.Status) == domain.StatusCancelled {
		observability.LoggerFromContext(ctx).Warn().
			Str("booking_ref", ap.BookingRef).
			Str("payment_id", res.PaymentID).
			Msg("payment approved for cancelled appointment")
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: ap.ClinicID,
		Action:   audit.ActionAppointmentPaid,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"booking_ref": ap.BookingRef,
			"payment_id":  res.PaymentID,
		},
	})

	return ap, nil
}

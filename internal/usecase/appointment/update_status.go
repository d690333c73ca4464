package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

// UpdateStatus moves an appointment forward in its lifecycle. Cancelling goes
// through CancelAppointment so the clinic's cancellation rules still apply.
type UpdateStatus struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	clock  domain.Clock
	cancel *CancelAppointment
}

func NewUpdateStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock domain.Clock,
	cancel *CancelAppointment,
) *UpdateStatus {
	return &UpdateStatus{
		repo:   repo,
		audit:  audit,
		clock:  clock,
		cancel: cancel,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	clinicID uint,
	userID *uint,
	appointmentID uint,
	newStatus string,
	reason string,
) (*models.Appointment, error) {

	target, ok := domain.ParseStatus(newStatus)
	if !ok {
		return nil, domain.ErrInvalidStatusTransition
	}

	if target == domain.StatusCancelled {
		return uc.cancel.Execute(ctx, clinicID, userID, appointmentID, reason)
	}

	var ap *models.Appointment

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockClinic(ctx, clinicID); err != nil {
			return err
		}

		found, err := tx.GetAppointment(ctx, clinicID, appointmentID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		switch target {
		case domain.StatusConfirmed:
			err = domain.Confirm(found, now)
		case domain.StatusCompleted:
			err = domain.Complete(found, now)
		default:
			err = domain.CanTransition(domain.Status(found.Status), target)
			if err == nil {
				err = domain.ErrInvalidStatusTransition
			}
		}
		if err != nil {
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

	action := audit.ActionAppointmentConfirmed
	if target == domain.StatusCompleted {
		action = audit.ActionAppointmentCompleted
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   userID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"booking_ref": ap.BookingRef},
	})

	return ap, nil
}

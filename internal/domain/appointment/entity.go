package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusConfirmed); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// Cancel only applies the transition. Policy checks live in ValidateCancellation.
func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelReason = reason
	ap.CancelledAt = &now
	return nil
}

package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
)

const ReasonHoldExpired = "hold_expired"

// ExpirePendingHolds cancels unpaid PENDING appointments older than ttl,
// releasing their slots. Cancellation rules are not applied: the hold is
// released by the system, not by the patient.
type ExpirePendingHolds struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock domain.Clock
}

func NewExpirePendingHolds(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *ExpirePendingHolds {
	return &ExpirePendingHolds{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

// Execute processes at most limit holds and returns how many were released.
func (uc *ExpirePendingHolds) Execute(
	ctx context.Context,
	ttl time.Duration,
	limit int,
) (int, error) {

	if ttl <= 0 {
		return 0, nil
	}

	now := uc.clock.Now()

	stale, err := uc.repo.ListStalePending(ctx, now.Add(-ttl), limit)
	if err != nil {
		return 0, err
	}

	log := observability.LoggerFromContext(ctx)
	expired := 0

	for _, candidate := range stale {
		var ap *models.Appointment

		err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
			if err := tx.LockClinic(ctx, candidate.ClinicID); err != nil {
				return err
			}

			// re-lê: pode ter sido confirmado ou pago nesse meio tempo
			found, err := tx.GetAppointment(ctx, candidate.ClinicID, candidate.ID)
			if err != nil {
				return err
			}
			if found.Status != string(domain.StatusPending) || found.PaymentStatus == domain.PaymentPaid {
				return nil
			}

			if err := domain.Cancel(found, ReasonHoldExpired, now); err != nil {
				return err
			}
			if err := tx.UpdateAppointment(ctx, found); err != nil {
				return err
			}
			ap = found
			return nil
		})
		if err != nil {
			log.Error().Err(err).
				Uint("clinic_id", candidate.ClinicID).
				Uint("appointment_id", candidate.ID).
				Msg("expire hold failed")
			continue
		}
		if ap == nil {
			continue
		}

		expired++
		uc.audit.Dispatch(audit.Event{
			ClinicID: ap.ClinicID,
			Action:   audit.ActionAppointmentExpired,
			Entity:   "appointment",
			EntityID: &ap.ID,
			Metadata: map[string]any{
				"booking_ref": ap.BookingRef,
				"reason":      ReasonHoldExpired,
			},
		})
	}

	return expired, nil
}

package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
)

// Index names created in db.NewDB.
const (
	IndexActiveSlot = "ux_appointments_active_slot"
	IndexBookingRef = "ux_appointments_booking_ref"
)

const pgUniqueViolation = "23505"

// mapCreateError turns unique violations on the appointment indexes into
// their domain errors.
func mapCreateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case IndexActiveSlot:
			return domain.ErrActiveSlotTaken
		case IndexBookingRef:
			return domain.ErrDuplicateBookingRef
		}
	}

	return fmt.Errorf("create appointment: %w", err)
}

// mapLookupError maps a missing row to notFound and wraps everything else.
func mapLookupError(err error, notFound error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", what, err)
}

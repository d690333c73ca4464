package appointment

import "github.com/BruksfildServices01/clinic-booking/internal/httperr"

// Rejections carry stable codes so callers can render localized messages.
var (
	ErrClinicNotFound           = httperr.ErrBusiness("clinic_not_found")
	ErrConsultationTypeNotFound = httperr.ErrBusiness("consultation_type_not_found")
	ErrDoctorNotFound           = httperr.ErrBusiness("doctor_not_found")
	ErrAppointmentNotFound      = httperr.ErrBusiness("appointment_not_found")

	ErrInvalidDateTime       = httperr.ErrBusiness("invalid_date_or_time")
	ErrDayClosed             = httperr.ErrBusiness("day_closed")
	ErrInvalidSlot           = httperr.ErrBusiness("invalid_slot")
	ErrSlotNoLongerAvailable = httperr.ErrBusiness("slot_no_longer_available")

	ErrOutsideBookingWindow = httperr.ErrBusiness("outside_booking_window")
	ErrDailyCapExceeded     = httperr.ErrBusiness("daily_cap_exceeded")

	ErrCancellationNotAllowed   = httperr.ErrBusiness("cancellation_not_allowed")
	ErrCancellationWindowPassed = httperr.ErrBusiness("cancellation_window_passed")
	ErrAlreadyTerminal          = httperr.ErrBusiness("already_terminal")
	ErrInvalidStatusTransition  = httperr.ErrBusiness("invalid_status_transition")
)

// Storage-level conflicts reported by Repository.CreateAppointment.
var (
	ErrActiveSlotTaken     = httperr.ErrBusiness("active_slot_taken")
	ErrDuplicateBookingRef = httperr.ErrBusiness("duplicate_booking_ref")
)

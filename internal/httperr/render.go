package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var statusByCode = map[string]int{
	"clinic_not_found":            http.StatusNotFound,
	"consultation_type_not_found": http.StatusNotFound,
	"doctor_not_found":            http.StatusNotFound,
	"appointment_not_found":       http.StatusNotFound,
	"invalid_date_or_time":        http.StatusBadRequest,
	"day_closed":                  http.StatusUnprocessableEntity,
	"invalid_slot":                http.StatusUnprocessableEntity,
	"outside_booking_window":      http.StatusUnprocessableEntity,
	"daily_cap_exceeded":          http.StatusUnprocessableEntity,
	"cancellation_not_allowed":    http.StatusUnprocessableEntity,
	"cancellation_window_passed":  http.StatusUnprocessableEntity,
	"slot_no_longer_available":    http.StatusConflict,
	"already_terminal":            http.StatusConflict,
	"invalid_status_transition":   http.StatusConflict,
}

var messageByCode = map[string]string{
	"clinic_not_found":            "Clinic not found.",
	"consultation_type_not_found": "Consultation type not found.",
	"doctor_not_found":            "Doctor not found.",
	"appointment_not_found":       "Appointment not found.",
	"invalid_date_or_time":        "Invalid date or time.",
	"day_closed":                  "The clinic is closed on this day.",
	"invalid_slot":                "The requested time is not an offered slot.",
	"outside_booking_window":      "The requested time is outside the booking window.",
	"daily_cap_exceeded":          "No more bookings are accepted for this day.",
	"cancellation_not_allowed":    "This clinic does not accept cancellations.",
	"cancellation_window_passed":  "It is too late to cancel this appointment.",
	"slot_no_longer_available":    "This slot is no longer available.",
	"already_terminal":            "The appointment is already closed.",
	"invalid_status_transition":   "Status change not allowed.",
}

// Render writes err as a JSON error. Business errors keep their code, anything
// else becomes storage_failure.
func Render(c *gin.Context, err error) {
	code, ok := CodeOf(err)
	if !ok {
		Internal(c, "storage_failure", "Unexpected error, please try again.")
		return
	}

	status, known := statusByCode[code]
	if !known {
		status = http.StatusBadRequest
	}

	msg := messageByCode[code]
	if msg == "" {
		msg = code
	}

	Write(c, status, code, msg)
}

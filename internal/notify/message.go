package notify

import (
	"time"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
)

// Message is the JSON payload kept on the notification queue. It carries ids
// only; the consumer reloads the appointment so patients never receive stale
// data.
type Message struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	ClinicID      uint      `json:"clinic_id"`
	AppointmentID uint      `json:"appointment_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	Attempts      int       `json:"attempts"`
}

// notifiable maps audit actions to the WhatsApp template sent for them.
var notifiable = map[string]string{
	audit.ActionAppointmentBooked:    "appointment_booked",
	audit.ActionAppointmentConfirmed: "appointment_confirmed",
	audit.ActionAppointmentCancelled: "appointment_cancelled",
	audit.ActionAppointmentExpired:   "appointment_cancelled",
}

func TemplateFor(kind string) (string, bool) {
	t, ok := notifiable[kind]
	return t, ok
}

package dto

import (
	"time"

	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

type AppointmentListDTO struct {
	ID               uint      `json:"id"`
	BookingRef       string    `json:"booking_ref"`
	Date             string    `json:"date"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"payment_status"`
	PatientName      string    `json:"patient_name"`
	PatientPhone     string    `json:"patient_phone"`
	ConsultationName string    `json:"consultation_name"`
	DoctorName       string    `json:"doctor_name"`
	FeeMinor         int64     `json:"fee_minor"`
}

// FromAppointments renders times in loc, the clinic's timezone.
func FromAppointments(aps []models.Appointment, loc *time.Location) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, AppointmentListDTO{
			ID:               ap.ID,
			BookingRef:       ap.BookingRef,
			Date:             ap.Date,
			StartTime:        ap.StartTime.In(loc),
			EndTime:          ap.EndTime.In(loc),
			Status:           ap.Status,
			PaymentStatus:    ap.PaymentStatus,
			PatientName:      ap.Patient.Name,
			PatientPhone:     ap.Patient.Phone,
			ConsultationName: ap.ConsultationType.Name,
			DoctorName:       ap.DoctorProfile.DisplayName,
			FeeMinor:         ap.FeeMinor,
		})
	}
	return out
}

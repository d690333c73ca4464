package models

import "time"

// AppointmentRules holds per-clinic booking policy. Nil fields fall back to
// the defaults in appointment.RulesFromModel.
type AppointmentRules struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"uniqueIndex" json:"clinic_id"`

	MinAdvanceBookingMinutes *int  `json:"min_advance_booking_minutes"`
	MaxAdvanceBookingDays    *int  `json:"max_advance_booking_days"`
	MaxBookingsPerDay        *int  `json:"max_bookings_per_day"`
	AllowCancellation        *bool `json:"allow_cancellation"`
	CancellationWindowHours  *int  `json:"cancellation_window_hours"`
	RequirePayment           *bool `json:"require_payment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

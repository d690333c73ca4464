package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClinicID uint   `gorm:"index:idx_appointments_clinic_date" json:"clinic_id"`
	Clinic   Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	PatientID uint    `json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	DoctorProfileID uint          `json:"doctor_profile_id"`
	DoctorProfile   DoctorProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor_profile"`

	ConsultationTypeID uint             `json:"consultation_type_id"`
	ConsultationType   ConsultationType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"consultation_type"`

	// Date is the calendar day in the clinic timezone (YYYY-MM-DD).
	Date      string    `gorm:"size:10;not null;index:idx_appointments_clinic_date" json:"date"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status     string `gorm:"size:20;default:'PENDING';index" json:"status"`
	BookingRef string `gorm:"size:20;not null" json:"booking_ref"`

	FeeMinor      int64  `gorm:"not null;default:0" json:"fee_minor"`
	Currency      string `gorm:"size:3;default:'BRL'" json:"currency"`
	PaymentStatus string `gorm:"size:20;default:'unpaid'" json:"payment_status"`
	PaymentID     string `gorm:"size:64" json:"payment_id,omitempty"`

	Notes        string     `gorm:"size:255" json:"notes"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

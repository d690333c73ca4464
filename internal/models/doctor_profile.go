package models

import "time"

type DoctorProfile struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	ClinicID uint  `gorm:"index" json:"clinic_id"`
	UserID   *uint `json:"user_id"`

	DisplayName string `gorm:"size:100;not null" json:"display_name"`
	Specialty   string `gorm:"size:100" json:"specialty"`
	Active      bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

// AvailabilityWindow is a weekly recurring opening interval ("HH:MM").
type AvailabilityWindow struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index:idx_windows_clinic_weekday" json:"clinic_id"`

	Weekday int `gorm:"index:idx_windows_clinic_weekday" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

type ConsultationType struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	DurationMin int    `gorm:"not null" json:"duration_min"`

	// FeeMinor is stored in minor currency units (centavos).
	FeeMinor int64  `gorm:"not null;default:0" json:"fee_minor"`
	Currency string `gorm:"size:3;default:'BRL'" json:"currency"`
	Active   bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

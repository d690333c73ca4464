package models

import "time"

// Clinic is the tenant root. Everything else hangs off ClinicID.
type Clinic struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Slug          string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone         string    `gorm:"size:20" json:"phone"`
	Address       string    `gorm:"size:255" json:"address"`
	Timezone      string    `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
	BufferMinutes int       `gorm:"default:0" json:"buffer_minutes"`
	LogoURL       string    `gorm:"size:512" json:"logo_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

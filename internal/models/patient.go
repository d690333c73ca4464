package models

import "time"

// Patient sem login, um registro por clínica (chave: telefone).
type Patient struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"uniqueIndex:ux_patients_clinic_phone" json:"clinic_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;uniqueIndex:ux_patients_clinic_phone" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

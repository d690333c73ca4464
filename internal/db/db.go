package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-booking/internal/config"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

// Indexes AutoMigrate cannot express. The active-slot index is the storage
// level guarantee that one slot holds at most one live appointment per doctor.
var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_active_slot
        ON appointments (clinic_id, date, start_time, doctor_profile_id)
        WHERE status <> 'CANCELLED'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_booking_ref
        ON appointments (booking_ref)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_pending_created
        ON appointments (created_at)
        WHERE status = 'PENDING'`,
}

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	return db
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Clinic{},
		&models.User{},
		&models.DoctorProfile{},
		&models.ConsultationType{},
		&models.AvailabilityWindow{},
		&models.AppointmentRules{},
		&models.Patient{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, ddl := range indexes {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	db.Exec(`
        UPDATE clinics
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return nil
}

package main

import (
	"context"
	"errors"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-booking/internal/db"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	infraRepo "github.com/BruksfildServices01/clinic-booking/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-booking/internal/usecase/appointment"
)

const (
	demoSlug     = "clinica-demo"
	demoEmail    = "owner@clinica-demo.com.br"
	demoPassword = "demo1234"

	doctorCount  = 3
	bookingCount = 40
	daysAhead    = 14
)

var specialties = []string{
	"Clínica Geral",
	"Dermatologia",
	"Cardiologia",
	"Pediatria",
	"Ortopedia",
}

// seed creates a demo clinic and books appointments through the regular
// booking use case, so every rule applies to the generated data.
func main() {
	cfg := config.Load()
	observability.InitLogger("clinic-seed", cfg.Env, cfg.LogLevel)

	db := dbpkg.NewDB(cfg)
	ctx := context.Background()

	gofakeit.Seed(time.Now().UnixNano())

	clinic, err := seedClinic(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("seed clinic")
	}

	types, err := seedConfiguration(ctx, db, clinic)
	if err != nil {
		log.Fatal().Err(err).Msg("seed configuration")
	}

	booked := seedBookings(ctx, db, clinic, types)

	log.Info().
		Str("slug", clinic.Slug).
		Str("login", demoEmail).
		Int("appointments", booked).
		Msg("seed complete")
}

func seedClinic(ctx context.Context, db *gorm.DB) (*models.Clinic, error) {
	var clinic models.Clinic
	err := db.WithContext(ctx).Where("slug = ?", demoSlug).First(&clinic).Error
	if err == nil {
		log.Info().Uint("clinic_id", clinic.ID).Msg("demo clinic already exists")
		return &clinic, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	clinic = models.Clinic{
		Name:          "Clínica Demo",
		Slug:          demoSlug,
		Phone:         "551130000000",
		Address:       gofakeit.Street() + ", " + gofakeit.City(),
		Timezone:      timezone.DefaultTimezone,
		BufferMinutes: 5,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&clinic).Error; err != nil {
			return err
		}

		owner := models.User{
			ClinicID:     clinic.ID,
			Name:         gofakeit.Name(),
			Email:        demoEmail,
			PasswordHash: string(hashed),
			Role:         "owner",
		}
		if err := tx.Omit("Clinic").Create(&owner).Error; err != nil {
			return err
		}

		for i := 0; i < doctorCount; i++ {
			dp := models.DoctorProfile{
				ClinicID:    clinic.ID,
				DisplayName: "Dr(a). " + gofakeit.LastName(),
				Specialty:   specialties[gofakeit.Number(0, len(specialties)-1)],
				Active:      true,
			}
			if i == 0 {
				dp.UserID = &owner.ID
				dp.DisplayName = owner.Name
			}
			if err := tx.Create(&dp).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("clinic_id", clinic.ID).Msg("demo clinic created")
	return &clinic, nil
}

func seedConfiguration(ctx context.Context, db *gorm.DB, clinic *models.Clinic) ([]models.ConsultationType, error) {
	var types []models.ConsultationType
	if err := db.WithContext(ctx).Where("clinic_id = ?", clinic.ID).Find(&types).Error; err != nil {
		return nil, err
	}
	if len(types) > 0 {
		return types, nil
	}

	types = []models.ConsultationType{
		{ClinicID: clinic.ID, Name: "Consulta", DurationMin: 30, FeeMinor: 25000, Currency: "BRL", Active: true},
		{ClinicID: clinic.ID, Name: "Retorno", DurationMin: 15, FeeMinor: 0, Currency: "BRL", Active: true},
		{ClinicID: clinic.ID, Name: "Avaliação completa", DurationMin: 60, FeeMinor: 40000, Currency: "BRL", Active: true},
	}

	var windows []models.AvailabilityWindow
	for wd := time.Monday; wd <= time.Friday; wd++ {
		windows = append(windows,
			models.AvailabilityWindow{ClinicID: clinic.ID, Weekday: int(wd), StartTime: "08:00", EndTime: "12:00"},
			models.AvailabilityWindow{ClinicID: clinic.ID, Weekday: int(wd), StartTime: "13:00", EndTime: "18:00"},
		)
	}
	windows = append(windows,
		models.AvailabilityWindow{ClinicID: clinic.ID, Weekday: int(time.Saturday), StartTime: "08:00", EndTime: "12:00"},
	)

	maxPerDay := 20
	cancelHours := 12
	rules := models.AppointmentRules{
		ClinicID:                clinic.ID,
		MaxBookingsPerDay:       &maxPerDay,
		CancellationWindowHours: &cancelHours,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&types).Error; err != nil {
			return err
		}
		if err := tx.Create(&windows).Error; err != nil {
			return err
		}
		return tx.Create(&rules).Error
	})
	if err != nil {
		return nil, err
	}
	return types, nil
}

func seedBookings(ctx context.Context, db *gorm.DB, clinic *models.Clinic, types []models.ConsultationType) int {
	repo := infraRepo.NewAppointmentGormRepository(db)
	clock := domain.SystemClock{}

	availability := ucAppointment.NewGetAvailability(repo, clock)
	book := ucAppointment.NewBookAppointment(repo, nil, clock)

	var doctors []models.DoctorProfile
	db.WithContext(ctx).Where("clinic_id = ? AND active = ?", clinic.ID, true).Find(&doctors)
	if len(doctors) == 0 || len(types) == 0 {
		return 0
	}

	today := timezone.StartOfDay(timezone.In(time.Now(), clinic.Timezone))
	booked := 0

	for attempt := 0; attempt < bookingCount*3 && booked < bookingCount; attempt++ {
		day := today.AddDate(0, 0, gofakeit.Number(1, daysAhead))
		ct := types[gofakeit.Number(0, len(types)-1)]
		doctor := doctors[gofakeit.Number(0, len(doctors)-1)]

		slots, err := availability.Execute(ctx, domain.AvailabilityInput{
			ClinicID:           clinic.ID,
			DoctorProfileID:    doctor.ID,
			ConsultationTypeID: ct.ID,
			Date:               day,
		})
		if err != nil || len(slots) == 0 {
			continue
		}
		slot := slots[gofakeit.Number(0, len(slots)-1)]

		_, err = book.Execute(ctx, ucAppointment.BookAppointmentInput{
			ClinicID:           clinic.ID,
			DoctorProfileID:    doctor.ID,
			ConsultationTypeID: ct.ID,
			Date:               day.Format(timezone.DateLayout),
			Time:               slot.Start.Format(timezone.ClockLayout),
			PatientName:        gofakeit.Name(),
			PatientPhone:       "55" + gofakeit.Phone(),
			PatientEmail:       gofakeit.Email(),
		})
		if err != nil {
			log.Debug().Err(err).Msg("seed booking skipped")
			continue
		}
		booked++
	}

	return booked
}

package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

// Repository is the persistence port of the booking engine. Lookups that miss
// return the matching *NotFound business error.
type Repository interface {
	// -------- Clinic --------
	GetClinicByID(ctx context.Context, id uint) (*models.Clinic, error)
	GetClinicBySlug(ctx context.Context, slug string) (*models.Clinic, error)
	// LockClinic takes a row lock on the clinic for the current transaction,
	// serializing concurrent bookings of the same tenant.
	LockClinic(ctx context.Context, clinicID uint) error

	// -------- Configuration --------
	GetConsultationType(ctx context.Context, clinicID, id uint) (*models.ConsultationType, error)
	ListConsultationTypes(ctx context.Context, clinicID uint, activeOnly bool) ([]models.ConsultationType, error)
	GetDoctorProfile(ctx context.Context, clinicID, id uint) (*models.DoctorProfile, error)
	GetDefaultDoctor(ctx context.Context, clinicID uint) (*models.DoctorProfile, error)
	ListAvailabilityWindows(ctx context.Context, clinicID uint) ([]models.AvailabilityWindow, error)
	// GetAppointmentRules returns nil, nil when the clinic never saved rules.
	GetAppointmentRules(ctx context.Context, clinicID uint) (*models.AppointmentRules, error)

	// -------- Patient --------
	GetOrCreatePatient(ctx context.Context, clinicID uint, name, phone, email string) (*models.Patient, error)

	// -------- Appointment (create / conflict) --------
	// ListBlockingForDay returns the non-cancelled appointments of a clinic on
	// date (YYYY-MM-DD), ordered by start time.
	ListBlockingForDay(ctx context.Context, clinicID uint, date string) ([]models.Appointment, error)
	// CreateAppointment maps unique violations to ErrActiveSlotTaken or
	// ErrDuplicateBookingRef.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	// -------- Appointment (state change) --------
	GetAppointment(ctx context.Context, clinicID, id uint) (*models.Appointment, error)
	GetAppointmentByRef(ctx context.Context, clinicID uint, ref string) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// -------- Listing --------
	ListAppointmentsForPeriod(ctx context.Context, clinicID uint, start, end time.Time) ([]models.Appointment, error)
	ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]models.Appointment, error)

	// Transaction runs fn against a repository bound to a single database
	// transaction. fn's error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

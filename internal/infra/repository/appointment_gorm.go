package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Clinic
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClinicByID(
	ctx context.Context,
	id uint,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, id).Error; err != nil {
		return nil, mapLookupError(err, domain.ErrClinicNotFound, "get clinic")
	}
	return &clinic, nil
}

func (r *AppointmentGormRepository) GetClinicBySlug(
	ctx context.Context,
	slug string,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&clinic).Error; err != nil {
		return nil, mapLookupError(err, domain.ErrClinicNotFound, "get clinic by slug")
	}
	return &clinic, nil
}

// LockClinic: SELECT ... FOR UPDATE na linha da clínica.
func (r *AppointmentGormRepository) LockClinic(
	ctx context.Context,
	clinicID uint,
) error {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&clinic, clinicID).Error; err != nil {
		return mapLookupError(err, domain.ErrClinicNotFound, "lock clinic")
	}
	return nil
}

// --------------------------------------------------
// Configuration
// --------------------------------------------------

func (r *AppointmentGormRepository) GetConsultationType(
	ctx context.Context,
	clinicID uint,
	id uint,
) (*models.ConsultationType, error) {

	var ct models.ConsultationType
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&ct).Error; err != nil {
		return nil, mapLookupError(err, domain.ErrConsultationTypeNotFound, "get consultation type")
	}
	return &ct, nil
}

func (r *AppointmentGormRepository) ListConsultationTypes(
	ctx context.Context,
	clinicID uint,
	activeOnly bool,
) ([]models.ConsultationType, error) {

	q := r.db.WithContext(ctx).Where("clinic_id = ?", clinicID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	types := []models.ConsultationType{}
	if err := q.Order("id ASC").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("list consultation types: %w", err)
	}
	return types, nil
}

func (r *AppointmentGormRepository) GetDoctorProfile(
	ctx context.Context,
	clinicID uint,
	id uint,
) (*models.DoctorProfile, error) {

	var doctor models.DoctorProfile
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ? AND active = ?", id, clinicID, true).
		First(&doctor).Error; err != nil {
		return nil, mapLookupError(err, domain.ErrDoctorNotFound, "get doctor")
	}
	return &doctor, nil
}

func (r *AppointmentGormRepository) GetDefaultDoctor(
	ctx context.Context,
	clinicID uint,
) (*models.DoctorProfile, error) {

	var doctor models.DoctorProfile
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND active = ?", clinicID, true).
		Order("id ASC").
		First(&doctor).Error; err != nil {
		return nil, mapLookupError(err, domain.ErrDoctorNotFound, "get default doctor")
	}
	return &doctor, nil
}

func (r *AppointmentGormRepository) ListAvailabilityWindows(
	ctx context.Context,
	clinicID uint,
) ([]models.AvailabilityWindow, error) {

	var windows []models.AvailabilityWindow
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error; err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}
	return windows, nil
}

func (r *AppointmentGormRepository) GetAppointmentRules(
	ctx context.Context,
	clinicID uint,
) (*models.AppointmentRules, error) {

	var rules []models.AppointmentRules
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Limit(1).
		Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("get appointment rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}
	return &rules[0], nil
}

// --------------------------------------------------
// Patient
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreatePatient(
	ctx context.Context,
	clinicID uint,
	name string,
	phone string,
	email string,
) (*models.Patient, error) {

	patient := models.Patient{
		ClinicID: clinicID,
		Name:     name,
		Phone:    phone,
		Email:    email,
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "clinic_id"}, {Name: "phone"}},
			DoNothing: true,
		}).
		Create(&patient).Error; err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	if patient.ID != 0 {
		return &patient, nil
	}

	// já existia
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND phone = ?", clinicID, phone).
		First(&patient).Error; err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return &patient, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBlockingForDay(
	ctx context.Context,
	clinicID uint,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "doctor_profile_id", "start_time", "end_time", "status").
		Where("clinic_id = ? AND date = ? AND status <> ?", clinicID, date, string(domain.StatusCancelled)).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list blocking appointments: %w", err)
	}
	return apps, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapCreateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error)
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	clinicID uint,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.withAssociations(ctx).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&ap).Error; err != nil {
		return nil, mapLookupError(err, domain.ErrAppointmentNotFound, "get appointment")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentByRef(
	ctx context.Context,
	clinicID uint,
	ref string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.withAssociations(ctx).
		Where("booking_ref = ? AND clinic_id = ?", ref, clinicID).
		First(&ap).Error; err != nil {
		return nil, mapLookupError(err, domain.ErrAppointmentNotFound, "get appointment by ref")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error; err != nil {
		return fmt.Errorf("update appointment %d: %w", ap.ID, err)
	}
	return nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	clinicID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.withAssociations(ctx).
		Where(
			"clinic_id = ? AND start_time >= ? AND start_time < ?",
			clinicID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListStalePending(
	ctx context.Context,
	createdBefore time.Time,
	limit int,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Select("id", "clinic_id").
		Where(
			"status = ? AND payment_status <> ? AND created_at < ?",
			string(domain.StatusPending),
			domain.PaymentPaid,
			createdBefore,
		).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var apps []models.Appointment
	if err := q.Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list stale pending: %w", err)
	}
	return apps, nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

func (r *AppointmentGormRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Patient").
		Preload("ConsultationType").
		Preload("DoctorProfile")
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)

package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/dto"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	clinicID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(clinic.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.AddDate(0, 0, 1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		clinicID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return dto.FromAppointments(appointments, loc), nil
}

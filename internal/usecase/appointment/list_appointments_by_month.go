package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/dto"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	clinicID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 2000 {
		return nil, domain.ErrInvalidDateTime
	}

	clinic, err := uc.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(clinic.Timezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

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

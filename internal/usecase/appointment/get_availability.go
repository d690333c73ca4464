package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	clock domain.Clock
}

func NewGetAvailability(repo domain.Repository, clock domain.Clock) *GetAvailability {
	return &GetAvailability{repo: repo, clock: clock}
}

// Execute lists the slots that a booking request would accept right now:
// inside opening hours, free for the doctor and within the clinic's rules.
// A weekday without windows returns ErrDayClosed with an empty slice.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, err
	}

	ct, err := bookableType(ctx, uc.repo, clinic.ID, in.ConsultationTypeID)
	if err != nil {
		return nil, err
	}

	doctor, err := resolveDoctor(ctx, uc.repo, clinic.ID, in.DoctorProfileID)
	if err != nil {
		return nil, err
	}

	windows, err := uc.repo.ListAvailabilityWindows(ctx, clinic.ID)
	if err != nil {
		return nil, err
	}

	day := timezone.StartOfDay(timezone.In(in.Date, clinic.Timezone))
	if len(domain.WindowsForDay(windows, day)) == 0 {
		return []domain.TimeSlot{}, domain.ErrDayClosed
	}

	candidates := domain.ResolveSlots(
		windows,
		day,
		time.Duration(ct.DurationMin)*time.Minute,
		time.Duration(clinic.BufferMinutes)*time.Minute,
	)
	if len(candidates) == 0 {
		return candidates, nil
	}

	existing, err := uc.repo.ListBlockingForDay(ctx, clinic.ID, day.Format(timezone.DateLayout))
	if err != nil {
		return nil, err
	}

	row, err := uc.repo.GetAppointmentRules(ctx, clinic.ID)
	if err != nil {
		return nil, err
	}
	rules := domain.RulesFromModel(row)

	if rules.CheckDailyCap(domain.CountBlocking(existing)) != nil {
		return []domain.TimeSlot{}, nil
	}

	free := domain.FilterAvailable(candidates, forDoctor(existing, doctor.ID))

	now := uc.clock.Now()
	out := make([]domain.TimeSlot, 0, len(free))
	for _, s := range free {
		if rules.CheckAdvanceWindow(now, s.Start) == nil {
			out = append(out, s)
		}
	}

	return out, nil
}

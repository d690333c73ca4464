package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
)

func TestGetAvailabilityMondayMorning(t *testing.T) {
	f := newFixture(t)

	slots, err := f.availability(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, startsOf(slots))
}

func TestGetAvailabilityClosedDay(t *testing.T) {
	f := newFixture(t)
	tuesday, _ := timezone.ParseDate(f.clinic.Timezone, "2026-10-20")

	slots, err := NewGetAvailability(f.repo, f.clock).Execute(context.Background(), domain.AvailabilityInput{
		ClinicID:           f.clinic.ID,
		ConsultationTypeID: f.ct.ID,
		Date:               tuesday,
	})

	assert.ErrorIs(t, err, domain.ErrDayClosed)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGetAvailabilityInactiveType(t *testing.T) {
	f := newFixture(t)
	ct := f.ct
	ct.Active = false
	f.repo.AddConsultationType(ct)

	_, err := f.availability(context.Background())

	assert.ErrorIs(t, err, domain.ErrConsultationTypeNotFound)
}

func TestGetAvailabilityCancelledDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	f.seed("09:00", domain.StatusCancelled)
	f.seed("09:30", domain.StatusPending)
	f.seed("10:00", domain.StatusCompleted)

	slots, err := f.availability(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "10:30", "11:00", "11:30"}, startsOf(slots))
}

func TestGetAvailabilityAppliesRules(t *testing.T) {
	t.Run("minimum advance hides early slots", func(t *testing.T) {
		f := newFixture(t)
		f.clock = domain.FixedClock{At: f.at(monday, "08:30")}

		slots, err := f.availability(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"10:30", "11:00", "11:30"}, startsOf(slots))
	})

	t.Run("daily cap closes the day", func(t *testing.T) {
		f := newFixture(t)
		f.repo.SetRules(models.AppointmentRules{ClinicID: f.clinic.ID, MaxBookingsPerDay: intPtr(2)})
		f.seed("09:00", domain.StatusPending)
		f.seed("09:30", domain.StatusPending)

		slots, err := f.availability(context.Background())
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}

func TestGetAvailabilityBufferBetweenSlots(t *testing.T) {
	f := newFixture(t)
	c := f.clinic
	c.BufferMinutes = 15
	f.repo.AddClinic(c)

	slots, err := f.availability(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:45", "10:30", "11:15"}, startsOf(slots))
}

func TestGetAvailabilityUnknownDoctor(t *testing.T) {
	f := newFixture(t)
	day, _ := timezone.ParseDate(f.clinic.Timezone, monday)

	_, err := NewGetAvailability(f.repo, f.clock).Execute(context.Background(), domain.AvailabilityInput{
		ClinicID:           f.clinic.ID,
		ConsultationTypeID: f.ct.ID,
		DoctorProfileID:    999,
		Date:               day,
	})

	assert.ErrorIs(t, err, domain.ErrDoctorNotFound)
}

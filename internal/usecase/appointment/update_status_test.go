package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

func newUpdateStatus(f *fixture) *UpdateStatus {
	return NewUpdateStatus(f.repo, nil, f.clock, NewCancelAppointment(f.repo, nil, f.clock))
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ap := f.seed("09:00", domain.StatusPending)
	uc := newUpdateStatus(f)
	ctx := context.Background()

	got, err := uc.Execute(ctx, f.clinic.ID, nil, ap.ID, "CONFIRMED", "")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
	assert.NotNil(t, got.ConfirmedAt)

	got, err = uc.Execute(ctx, f.clinic.ID, nil, ap.ID, "COMPLETED", "")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)
	assert.NotNil(t, got.CompletedAt)

	_, err = uc.Execute(ctx, f.clinic.ID, nil, ap.ID, "CONFIRMED", "")
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)
}

func TestUpdateStatusInvalidTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.Status
		target string
		want   error
	}{
		{"pending straight to completed", domain.StatusPending, "COMPLETED", domain.ErrInvalidStatusTransition},
		{"back to pending", domain.StatusConfirmed, "PENDING", domain.ErrInvalidStatusTransition},
		{"unknown status", domain.StatusPending, "NO_SHOW", domain.ErrInvalidStatusTransition},
		{"reopen cancelled", domain.StatusCancelled, "CONFIRMED", domain.ErrAlreadyTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ap := f.seed("09:00", tt.from)

			_, err := newUpdateStatus(f).Execute(context.Background(), f.clinic.ID, nil, ap.ID, tt.target, "")

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, string(tt.from), f.repo.Appointments()[0].Status)
		})
	}
}

func TestUpdateStatusCancelledAppliesRules(t *testing.T) {
	f := newFixture(t)
	ap := f.seed("09:00", domain.StatusConfirmed)
	f.repo.SetRules(models.AppointmentRules{ClinicID: f.clinic.ID, AllowCancellation: boolPtr(false)})

	_, err := newUpdateStatus(f).Execute(context.Background(), f.clinic.ID, nil, ap.ID, "CANCELLED", "")

	assert.ErrorIs(t, err, domain.ErrCancellationNotAllowed)
}

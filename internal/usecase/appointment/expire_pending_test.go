package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
)

func TestExpirePendingHolds(t *testing.T) {
	f := newFixture(t)

	stale := f.seed("09:00", domain.StatusPending)
	paid := f.seed("09:30", domain.StatusPending)
	confirmed := f.seed("10:00", domain.StatusConfirmed)

	p := f.repo.Appointments()[1]
	p.PaymentStatus = domain.PaymentPaid
	f.repo.AddAppointment(p)

	rec := &recorder{}
	d := audit.NewDispatcher(rec)
	clock := domain.FixedClock{At: thursday.Add(time.Hour)}

	n, err := NewExpirePendingHolds(f.repo, d, clock).Execute(context.Background(), 30*time.Minute, 100)
	d.Close()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	byID := map[uint]string{}
	reasons := map[uint]string{}
	for _, ap := range f.repo.Appointments() {
		byID[ap.ID] = ap.Status
		reasons[ap.ID] = ap.CancelReason
	}
	assert.Equal(t, string(domain.StatusCancelled), byID[stale.ID])
	assert.Equal(t, ReasonHoldExpired, reasons[stale.ID])
	assert.Equal(t, string(domain.StatusPending), byID[paid.ID])
	assert.Equal(t, string(domain.StatusConfirmed), byID[confirmed.ID])
	assert.Equal(t, []string{audit.ActionAppointmentExpired}, rec.actions())
}

func TestExpirePendingHoldsRespectsTTL(t *testing.T) {
	f := newFixture(t)
	f.seed("09:00", domain.StatusPending)
	clock := domain.FixedClock{At: thursday.Add(10 * time.Minute)}
	uc := NewExpirePendingHolds(f.repo, nil, clock)

	n, err := uc.Execute(context.Background(), 30*time.Minute, 100)
	require.NoError(t, err)
	assert.Zero(t, n, "younger than ttl")

	n, err = uc.Execute(context.Background(), 0, 100)
	require.NoError(t, err)
	assert.Zero(t, n, "disabled")
}

package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
)

func TestMarkPaid(t *testing.T) {
	f := newFixture(t)
	ap := f.seed("09:00", domain.StatusPending)

	gw := &fakeGateway{result: &domain.PaymentResult{
		PaymentID:  "123456",
		ClinicID:   f.clinic.ID,
		BookingRef: ap.BookingRef,
		Status:     "approved",
		Approved:   true,
	}}
	rec := &recorder{}
	d := audit.NewDispatcher(rec)
	uc := NewMarkPaid(f.repo, d, gw)

	got, err := uc.Execute(context.Background(), "123456")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, "123456", got.PaymentID)
	assert.Equal(t, string(domain.StatusPending), got.Status)

	// webhook retries are harmless
	_, err = uc.Execute(context.Background(), "123456")
	require.NoError(t, err)
	d.Close()

	assert.Equal(t, []string{audit.ActionAppointmentPaid}, rec.actions())
}

func TestMarkPaidIgnoresPendingPayment(t *testing.T) {
	f := newFixture(t)
	ap := f.seed("09:00", domain.StatusPending)
	gw := &fakeGateway{result: &domain.PaymentResult{ClinicID: f.clinic.ID, BookingRef: ap.BookingRef, Status: "in_process"}}

	got, err := NewMarkPaid(f.repo, nil, gw).Execute(context.Background(), "1")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, domain.PaymentUnpaid, f.repo.Appointments()[0].PaymentStatus)
}

func TestMarkPaidGatewayError(t *testing.T) {
	f := newFixture(t)
	gw := &fakeGateway{verifyErr: errBoom}

	_, err := NewMarkPaid(f.repo, nil, gw).Execute(context.Background(), "1")

	assert.ErrorIs(t, err, errBoom)
}

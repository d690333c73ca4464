package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestRulesFromModelDefaults(t *testing.T) {
	assert.Equal(t, DefaultRules(), RulesFromModel(nil))
	assert.Equal(t, DefaultRules(), RulesFromModel(&models.AppointmentRules{}))
}

func TestRulesFromModelOverrides(t *testing.T) {
	r := RulesFromModel(&models.AppointmentRules{
		MinAdvanceBookingMinutes: intPtr(0),
		MaxAdvanceBookingDays:    intPtr(7),
		MaxBookingsPerDay:        intPtr(5),
		AllowCancellation:        boolPtr(false),
		CancellationWindowHours:  intPtr(48),
		RequirePayment:           boolPtr(true),
	})

	assert.Equal(t, time.Duration(0), r.MinAdvance)
	assert.Equal(t, 7*24*time.Hour, r.MaxAdvance)
	assert.Equal(t, 5, r.MaxBookingsPerDay)
	assert.False(t, r.AllowCancellation)
	assert.Equal(t, 48*time.Hour, r.CancellationWindow)
	assert.True(t, r.RequirePayment)
}

func TestValidateBookingRequestAdvanceWindow(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	rules := DefaultRules()

	slotAt := func(start time.Time) TimeSlot {
		return TimeSlot{Start: start, End: start.Add(30 * time.Minute)}
	}

	tests := []struct {
		name  string
		start time.Time
		want  error
	}{
		{"past", now.Add(-time.Hour), ErrOutsideBookingWindow},
		{"inside min advance", now.Add(90 * time.Minute), ErrOutsideBookingWindow},
		{"exactly min advance", now.Add(2 * time.Hour), nil},
		{"30 days out", now.AddDate(0, 0, 30), nil},
		{"30 days out later that day", now.AddDate(0, 0, 30).Add(9 * time.Hour), nil},
		{"last minute of day 30", time.Date(2026, 11, 14, 23, 59, 0, 0, time.UTC), nil},
		{"31 days out at midnight", time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC), ErrOutsideBookingWindow},
		{"31 days out", now.AddDate(0, 0, 31), ErrOutsideBookingWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateBookingRequest(now, rules, slotAt(tt.start), 0))
		})
	}
}

func TestValidateBookingRequestDailyCap(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	slot := TimeSlot{Start: now.AddDate(0, 0, 2), End: now.AddDate(0, 0, 2).Add(time.Hour)}

	rules := DefaultRules()
	assert.NoError(t, ValidateBookingRequest(now, rules, slot, 500))

	rules.MaxBookingsPerDay = 5
	assert.NoError(t, ValidateBookingRequest(now, rules, slot, 4))
	assert.Equal(t, ErrDailyCapExceeded, ValidateBookingRequest(now, rules, slot, 5))
}

func TestValidateCancellation(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	ap := func(status Status, startsIn time.Duration) *models.Appointment {
		return &models.Appointment{Status: string(status), StartTime: now.Add(startsIn)}
	}

	rules := DefaultRules()

	assert.NoError(t, ValidateCancellation(now, rules, ap(StatusPending, 48*time.Hour)))
	assert.NoError(t, ValidateCancellation(now, rules, ap(StatusConfirmed, 24*time.Hour)))
	assert.Equal(t, ErrCancellationWindowPassed, ValidateCancellation(now, rules, ap(StatusConfirmed, 2*time.Hour)))
	assert.Equal(t, ErrAlreadyTerminal, ValidateCancellation(now, rules, ap(StatusCancelled, 48*time.Hour)))
	assert.Equal(t, ErrAlreadyTerminal, ValidateCancellation(now, rules, ap(StatusCompleted, 48*time.Hour)))

	rules.AllowCancellation = false
	assert.Equal(t, ErrCancellationNotAllowed, ValidateCancellation(now, rules, ap(StatusPending, 48*time.Hour)))
}

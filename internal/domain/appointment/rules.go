package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

const (
	DefaultMinAdvance         = 120 * time.Minute
	DefaultMaxAdvance         = 30 * 24 * time.Hour
	DefaultCancellationWindow = 24 * time.Hour
)

// Rules is the resolved booking policy of a clinic. Build it once per request
// with RulesFromModel; call sites never look at the nullable row directly.
type Rules struct {
	MinAdvance         time.Duration
	MaxAdvance         time.Duration
	MaxBookingsPerDay  int // 0 = unlimited
	AllowCancellation  bool
	CancellationWindow time.Duration
	RequirePayment     bool
}

func DefaultRules() Rules {
	return Rules{
		MinAdvance:         DefaultMinAdvance,
		MaxAdvance:         DefaultMaxAdvance,
		MaxBookingsPerDay:  0,
		AllowCancellation:  true,
		CancellationWindow: DefaultCancellationWindow,
		RequirePayment:     false,
	}
}

// RulesFromModel applies the clinic's overrides on top of DefaultRules.
// A nil row means "all defaults".
func RulesFromModel(m *models.AppointmentRules) Rules {
	r := DefaultRules()
	if m == nil {
		return r
	}

	if m.MinAdvanceBookingMinutes != nil && *m.MinAdvanceBookingMinutes >= 0 {
		r.MinAdvance = time.Duration(*m.MinAdvanceBookingMinutes) * time.Minute
	}
	if m.MaxAdvanceBookingDays != nil && *m.MaxAdvanceBookingDays > 0 {
		r.MaxAdvance = time.Duration(*m.MaxAdvanceBookingDays) * 24 * time.Hour
	}
	if m.MaxBookingsPerDay != nil && *m.MaxBookingsPerDay > 0 {
		r.MaxBookingsPerDay = *m.MaxBookingsPerDay
	}
	if m.AllowCancellation != nil {
		r.AllowCancellation = *m.AllowCancellation
	}
	if m.CancellationWindowHours != nil && *m.CancellationWindowHours >= 0 {
		r.CancellationWindow = time.Duration(*m.CancellationWindowHours) * time.Hour
	}
	if m.RequirePayment != nil {
		r.RequirePayment = *m.RequirePayment
	}

	return r
}

// CheckAdvanceWindow rejects starts in the past, before now+MinAdvance, or on
// a calendar day after the day of now+MaxAdvance. Days are taken in start's
// location, so the horizon covers the whole last day at the clinic.
func (r Rules) CheckAdvanceWindow(now, start time.Time) error {
	if start.Before(now) {
		return ErrOutsideBookingWindow
	}
	if start.Before(now.Add(r.MinAdvance)) {
		return ErrOutsideBookingWindow
	}

	limit := now.Add(r.MaxAdvance).In(start.Location())
	dayAfterLimit := time.Date(limit.Year(), limit.Month(), limit.Day()+1, 0, 0, 0, 0, limit.Location())
	if !start.Before(dayAfterLimit) {
		return ErrOutsideBookingWindow
	}
	return nil
}

func (r Rules) CheckDailyCap(bookedThatDay int) error {
	if r.MaxBookingsPerDay > 0 && bookedThatDay >= r.MaxBookingsPerDay {
		return ErrDailyCapExceeded
	}
	return nil
}

// ValidateBookingRequest runs every booking rule for slot. bookedThatDay is
// the number of non-cancelled appointments already on the slot's day.
func ValidateBookingRequest(now time.Time, rules Rules, slot TimeSlot, bookedThatDay int) error {
	if err := rules.CheckAdvanceWindow(now, slot.Start); err != nil {
		return err
	}
	return rules.CheckDailyCap(bookedThatDay)
}

// ValidateCancellation checks status, clinic policy and the cancellation window.
func ValidateCancellation(now time.Time, rules Rules, ap *models.Appointment) error {
	if Status(ap.Status).IsTerminal() {
		return ErrAlreadyTerminal
	}
	if !rules.AllowCancellation {
		return ErrCancellationNotAllowed
	}
	if now.After(ap.StartTime.Add(-rules.CancellationWindow)) {
		return ErrCancellationWindowPassed
	}
	return nil
}

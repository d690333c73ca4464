package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/domain/appointment/appointmenttest"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
)

var saoPaulo = timezone.Location("America/Sao_Paulo")

// Thursday morning, four days before the Monday under test (2026-10-19).
var thursday = time.Date(2026, 10, 15, 8, 0, 0, 0, saoPaulo)

const monday = "2026-10-19"

type fixture struct {
	repo   *appointmenttest.Memory
	clinic models.Clinic
	ct     models.ConsultationType
	doctor models.DoctorProfile
	clock  domain.FixedClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := appointmenttest.NewMemory()
	repo.Now = func() time.Time { return thursday }

	clinic := repo.AddClinic(models.Clinic{
		Name:     "Clínica Centro",
		Slug:     "centro",
		Timezone: "America/Sao_Paulo",
	})
	ct := repo.AddConsultationType(models.ConsultationType{
		ClinicID:    clinic.ID,
		Name:        "Clínico geral",
		DurationMin: 30,
		FeeMinor:    15000,
		Currency:    "BRL",
		Active:      true,
	})
	doctor := repo.AddDoctor(models.DoctorProfile{
		ClinicID:    clinic.ID,
		DisplayName: "Dra. Souza",
		Active:      true,
	})
	repo.AddWindow(models.AvailabilityWindow{
		ClinicID:  clinic.ID,
		Weekday:   int(time.Monday),
		StartTime: "09:00",
		EndTime:   "12:00",
	})

	return &fixture{
		repo:   repo,
		clinic: clinic,
		ct:     ct,
		doctor: doctor,
		clock:  domain.FixedClock{At: thursday},
	}
}

func (f *fixture) input(clock string) BookAppointmentInput {
	return BookAppointmentInput{
		ClinicID:           f.clinic.ID,
		ConsultationTypeID: f.ct.ID,
		Date:               monday,
		Time:               clock,
		PatientName:        "Ana Lima",
		PatientPhone:       "5511999990000",
		PatientEmail:       "ana@example.com",
	}
}

func (f *fixture) at(date, clock string) time.Time {
	t, err := timezone.ParseDateTime(f.clinic.Timezone, date, clock)
	if err != nil {
		panic(err)
	}
	return t
}

// seed stores an appointment directly, bypassing every rule.
func (f *fixture) seed(clock string, status domain.Status) models.Appointment {
	start := f.at(monday, clock)
	return f.repo.AddAppointment(models.Appointment{
		ClinicID:           f.clinic.ID,
		DoctorProfileID:    f.doctor.ID,
		ConsultationTypeID: f.ct.ID,
		Date:               monday,
		StartTime:          start,
		EndTime:            start.Add(30 * time.Minute),
		Status:             string(status),
		BookingRef:         "261019-" + clock[:2] + clock[3:] + "XX",
		PaymentStatus:      domain.PaymentUnpaid,
		CreatedAt:          thursday,
	})
}

func (f *fixture) booker() *BookAppointment {
	return NewBookAppointment(f.repo, nil, f.clock)
}

func (f *fixture) availability(ctx context.Context) ([]domain.TimeSlot, error) {
	day, _ := timezone.ParseDate(f.clinic.Timezone, monday)
	return NewGetAvailability(f.repo, f.clock).Execute(ctx, domain.AvailabilityInput{
		ClinicID:           f.clinic.ID,
		ConsultationTypeID: f.ct.ID,
		Date:               day,
	})
}

func startsOf(slots []domain.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.In(saoPaulo).Format("15:04"))
	}
	return out
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// recorder is an audit sink collecting events.
type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Handle(_ context.Context, ev audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

// fakeGateway is a scripted domain.PaymentGateway.
type fakeGateway struct {
	checkoutURL string
	checkoutErr error
	checkouts   []domain.Checkout

	result    *domain.PaymentResult
	verifyErr error
}

func (g *fakeGateway) CreateCheckout(_ context.Context, c domain.Checkout) (string, error) {
	g.checkouts = append(g.checkouts, c)
	return g.checkoutURL, g.checkoutErr
}

func (g *fakeGateway) VerifyPayment(_ context.Context, _ string) (*domain.PaymentResult, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.result, nil
}

var errBoom = errors.New("boom")

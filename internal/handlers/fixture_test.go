package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/domain/appointment/appointmenttest"
	"github.com/BruksfildServices01/clinic-booking/internal/middleware"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
	"github.com/BruksfildServices01/clinic-booking/internal/usecase/appointment"
)

// Thursday 08:00 in São Paulo; the bookings below target Monday 2026-10-19.
var now = time.Date(2026, 10, 15, 8, 0, 0, 0, timezone.Location("America/Sao_Paulo"))

const monday = "2026-10-19"

type env struct {
	repo    *appointmenttest.Memory
	clinic  models.Clinic
	ct      models.ConsultationType
	retired models.ConsultationType
	doctor  models.DoctorProfile
	gateway *fakeGateway
	router  *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := appointmenttest.NewMemory()
	repo.Now = func() time.Time { return now }

	e := &env{repo: repo, gateway: &fakeGateway{}}
	e.clinic = repo.AddClinic(models.Clinic{
		Name:     "Clínica Centro",
		Slug:     "centro",
		Timezone: "America/Sao_Paulo",
	})
	e.ct = repo.AddConsultationType(models.ConsultationType{
		ClinicID:    e.clinic.ID,
		Name:        "Clínico geral",
		DurationMin: 30,
		FeeMinor:    15000,
		Currency:    "BRL",
		Active:      true,
	})
	e.retired = repo.AddConsultationType(models.ConsultationType{
		ClinicID:    e.clinic.ID,
		Name:        "Retorno (desativado)",
		DurationMin: 15,
		Active:      false,
	})
	e.doctor = repo.AddDoctor(models.DoctorProfile{
		ClinicID:    e.clinic.ID,
		DisplayName: "Dra. Souza",
		Active:      true,
	})
	repo.AddWindow(models.AvailabilityWindow{
		ClinicID:  e.clinic.ID,
		Weekday:   int(time.Monday),
		StartTime: "09:00",
		EndTime:   "12:00",
	})

	clock := domain.FixedClock{At: now}
	cancel := appointment.NewCancelAppointment(repo, nil, clock)

	public := NewPublicHandler(
		repo,
		appointment.NewGetAvailability(repo, clock),
		appointment.NewBookAppointment(repo, nil, clock),
		cancel,
	)
	staff := NewAppointmentHandler(
		repo,
		appointment.NewListAppointmentsByDate(repo),
		appointment.NewListAppointmentsByMonth(repo),
		appointment.NewUpdateStatus(repo, nil, clock, cancel),
		cancel,
	)
	rules := NewRulesHandler(nil, repo, false)
	webhook := NewPaymentWebhookHandler(appointment.NewMarkPaid(repo, nil, e.gateway))

	r := gin.New()
	pub := r.Group("/api/public")
	pub.GET("/:slug/consultation-types", public.ListConsultationTypes)
	pub.GET("/:slug/availability", public.Availability)
	pub.POST("/:slug/appointments", public.CreateAppointment)
	pub.POST("/:slug/appointments/:ref/cancel", public.CancelAppointment)
	pub.POST("/payments/webhook", webhook.Handle)

	me := r.Group("/api/me", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uint(1))
		c.Set(middleware.ContextClinicID, e.clinic.ID)
		c.Set(middleware.ContextUserRole, "owner")
	})
	me.GET("/appointments", staff.ListByDate)
	me.GET("/appointments/month", staff.ListByMonth)
	me.PATCH("/appointments/:id/status", staff.UpdateStatus)
	me.PATCH("/appointments/:id/cancel", staff.Cancel)
	me.GET("/rules", rules.Get)

	e.router = r
	return e
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (e *env) bookingBody(clock string) gin.H {
	return gin.H{
		"patient_name":         "Ana Lima",
		"patient_phone":        "+55 (11) 99999-0000",
		"patient_email":        "ana@example.com",
		"consultation_type_id": e.ct.ID,
		"date":                 monday,
		"time":                 clock,
	}
}

type errorBody struct {
	Code string `json:"error_code"`
}

// fakeGateway is a scripted domain.PaymentGateway.
type fakeGateway struct {
	result    *domain.PaymentResult
	verifyErr error
}

func (g *fakeGateway) CreateCheckout(context.Context, domain.Checkout) (string, error) {
	return "https://pay.example/checkout", nil
}

func (g *fakeGateway) VerifyPayment(context.Context, string) (*domain.PaymentResult, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.result, nil
}


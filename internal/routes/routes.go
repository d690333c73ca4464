package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	"github.com/BruksfildServices01/clinic-booking/internal/config"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-booking/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-booking/internal/middleware"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
	ucAppointment "github.com/BruksfildServices01/clinic-booking/internal/usecase/appointment"
)

// Infra carries the process-wide clients built in main. Payments and Logos
// are nil when their provider is not configured.
type Infra struct {
	Audit    *audit.Dispatcher
	Metrics  *observability.BookingMetrics
	Payments domain.PaymentGateway
	Logos    handlers.LogoUploader
	Clock    domain.Clock
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middleware.RequestLogger())

	clock := infra.Clock
	if clock == nil {
		clock = domain.SystemClock{}
	}

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, clock)

	bookAppointmentUC := ucAppointment.NewBookAppointment(
		appointmentRepo,
		infra.Audit,
		clock,
	).WithMetrics(infra.Metrics)
	if infra.Payments != nil {
		bookAppointmentUC.WithPayments(infra.Payments)
	}

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		infra.Audit,
		clock,
	).WithMetrics(infra.Metrics)

	updateStatusUC := ucAppointment.NewUpdateStatus(
		appointmentRepo,
		infra.Audit,
		clock,
		cancelAppointmentUC,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	clinicHandler := handlers.NewClinicHandler(db, infra.Logos)

	availabilityHandler := handlers.NewAvailabilityHandler(db)
	consultationTypeHandler := handlers.NewConsultationTypeHandler(db)
	rulesHandler := handlers.NewRulesHandler(db, appointmentRepo, infra.Payments != nil)
	patientHandler := handlers.NewPatientHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		appointmentRepo,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		updateStatusUC,
		cancelAppointmentUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(
		appointmentRepo,
		getAvailabilityUC,
		bookAppointmentUC,
		cancelAppointmentUC,
	)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/consultation-types", publicHandler.ListConsultationTypes)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
			publicAPI.POST("/:slug/appointments/:ref/cancel", publicHandler.CancelAppointment)

			if infra.Payments != nil {
				markPaidUC := ucAppointment.NewMarkPaid(appointmentRepo, infra.Audit, infra.Payments)
				webhookHandler := handlers.NewPaymentWebhookHandler(markPaidUC)
				publicAPI.POST("/payments/webhook", webhookHandler.Handle)
			}
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/clinic", clinicHandler.Get)
			secured.PATCH("/me/clinic", clinicHandler.Update)
			secured.PUT("/me/clinic/logo", clinicHandler.UploadLogo)

			secured.GET("/me/availability", availabilityHandler.Get)
			secured.PUT("/me/availability", availabilityHandler.Update)

			secured.GET("/me/consultation-types", consultationTypeHandler.List)
			secured.POST("/me/consultation-types", consultationTypeHandler.Create)
			secured.PATCH("/me/consultation-types/:id", consultationTypeHandler.Update)

			secured.GET("/me/rules", rulesHandler.Get)
			secured.PUT("/me/rules", rulesHandler.Update)

			secured.GET("/me/patients", patientHandler.List)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/status", appointmentHandler.UpdateStatus)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}

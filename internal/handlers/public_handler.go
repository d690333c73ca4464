package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/httpresp"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
	"github.com/BruksfildServices01/clinic-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	repo         domain.Repository
	availability *appointment.GetAvailability
	book         *appointment.BookAppointment
	cancel       *appointment.CancelAppointment
}

func NewPublicHandler(
	repo domain.Repository,
	availability *appointment.GetAvailability,
	book *appointment.BookAppointment,
	cancel *appointment.CancelAppointment,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		availability: availability,
		book:         book,
		cancel:       cancel,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	PatientName        string `json:"patient_name" binding:"required"`
	PatientPhone       string `json:"patient_phone" binding:"required"`
	PatientEmail       string `json:"patient_email"`
	ConsultationTypeID uint   `json:"consultation_type_id" binding:"required"`
	DoctorProfileID    uint   `json:"doctor_profile_id"`
	Date               string `json:"date" binding:"required"` // YYYY-MM-DD
	Time               string `json:"time" binding:"required"` // HH:mm
	Notes              string `json:"notes"`
}

type PublicCancelRequest struct {
	Phone  string `json:"phone" binding:"required"`
	Reason string `json:"reason"`
}

type slotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type bookingResponse struct {
	BookingRef      string `json:"booking_ref"`
	Status          string `json:"status"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	End             string `json:"end"`
	FeeMinor        int64  `json:"fee_minor"`
	Currency        string `json:"currency"`
	RequiresPayment bool   `json:"requires_payment"`
	CheckoutURL     string `json:"checkout_url,omitempty"`
}

func (h *PublicHandler) clinic(c *gin.Context) (*models.Clinic, bool) {
	clinic, err := h.repo.GetClinicBySlug(c.Request.Context(), strings.ToLower(c.Param("slug")))
	if err != nil {
		renderError(c, err)
		return nil, false
	}
	return clinic, true
}

////////////////////////////////////////////////////////
// CONSULTATION TYPES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListConsultationTypes(c *gin.Context) {
	clinic, ok := h.clinic(c)
	if !ok {
		return
	}

	types, err := h.repo.ListConsultationTypes(c.Request.Context(), clinic.ID, true)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clinic": gin.H{
			"name":     clinic.Name,
			"slug":     clinic.Slug,
			"phone":    clinic.Phone,
			"address":  clinic.Address,
			"timezone": clinic.Timezone,
			"logo_url": clinic.LogoURL,
		},
		"consultation_types": types,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	ctStr := c.Query("consultation_type_id")

	if dateStr == "" || ctStr == "" {
		httperr.BadRequest(c, "missing_params", "Data e tipo de consulta obrigatórios.")
		return
	}

	ctID, ok := parseOptionalUint(ctStr)
	if !ok || ctID == 0 {
		httperr.BadRequest(c, "invalid_consultation_type_id", "Tipo de consulta inválido.")
		return
	}

	doctorID, ok := parseOptionalUint(c.Query("doctor_id"))
	if !ok {
		httperr.BadRequest(c, "invalid_doctor_id", "Médico inválido.")
		return
	}

	clinic, ok := h.clinic(c)
	if !ok {
		return
	}

	date, err := timezone.ParseDate(clinic.Timezone, dateStr)
	if err != nil {
		renderError(c, domain.ErrInvalidDateTime)
		return
	}

	slots, err := h.availability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			ClinicID:           clinic.ID,
			DoctorProfileID:    doctorID,
			ConsultationTypeID: ctID,
			Date:               date,
		},
	)
	closed := errors.Is(err, domain.ErrDayClosed)
	if err != nil && !closed {
		renderError(c, err)
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			Start: s.Start.Format(timezone.ClockLayout),
			End:   s.End.Format(timezone.ClockLayout),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     dateStr,
		"timezone": clinic.Timezone,
		"closed":   closed,
		"slots":    out,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	phone, ok := validators.NormalizePhone(req.PatientPhone)
	if !ok {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
		return
	}

	clinic, ok := h.clinic(c)
	if !ok {
		return
	}

	res, err := h.book.Execute(
		c.Request.Context(),
		appointment.BookAppointmentInput{
			ClinicID:           clinic.ID,
			DoctorProfileID:    req.DoctorProfileID,
			ConsultationTypeID: req.ConsultationTypeID,
			Date:               req.Date,
			Time:               req.Time,
			PatientName:        strings.TrimSpace(req.PatientName),
			PatientPhone:       phone,
			PatientEmail:       strings.ToLower(strings.TrimSpace(req.PatientEmail)),
			Notes:              req.Notes,
		},
	)
	if err != nil {
		renderError(c, err)
		return
	}

	loc := timezone.Location(clinic.Timezone)
	ap := res.Appointment

	httpresp.Created(c, bookingResponse{
		BookingRef:      ap.BookingRef,
		Status:          ap.Status,
		Date:            ap.Date,
		Start:           ap.StartTime.In(loc).Format(timezone.ClockLayout),
		End:             ap.EndTime.In(loc).Format(timezone.ClockLayout),
		FeeMinor:        ap.FeeMinor,
		Currency:        ap.Currency,
		RequiresPayment: res.RequiresPayment,
		CheckoutURL:     res.CheckoutURL,
	})
}

////////////////////////////////////////////////////////
// PATIENT CANCEL
////////////////////////////////////////////////////////

func (h *PublicHandler) CancelAppointment(c *gin.Context) {
	var req PublicCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	phone, ok := validators.NormalizePhone(req.Phone)
	if !ok {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
		return
	}

	clinic, ok := h.clinic(c)
	if !ok {
		return
	}

	ap, err := h.cancel.ExecuteByRef(
		c.Request.Context(),
		clinic.ID,
		c.Param("ref"),
		phone,
		strings.TrimSpace(req.Reason),
	)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_ref":  ap.BookingRef,
		"status":       ap.Status,
		"cancelled_at": ap.CancelledAt,
	})
}

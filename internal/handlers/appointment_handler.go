package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/httpresp"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
	"github.com/BruksfildServices01/clinic-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	repo         domain.Repository
	listByDate   *appointment.ListAppointmentsByDate
	listByMonth  *appointment.ListAppointmentsByMonth
	updateStatus *appointment.UpdateStatus
	cancel       *appointment.CancelAppointment
}

func NewAppointmentHandler(
	repo domain.Repository,
	listByDate *appointment.ListAppointmentsByDate,
	listByMonth *appointment.ListAppointmentsByMonth,
	updateStatus *appointment.UpdateStatus,
	cancel *appointment.CancelAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:         repo,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
		updateStatus: updateStatus,
		cancel:       cancel,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	clinicID := clinicIDFrom(c)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	clinic, err := h.repo.GetClinicByID(c.Request.Context(), clinicID)
	if err != nil {
		renderError(c, err)
		return
	}

	date, err := timezone.ParseDate(clinic.Timezone, dateStr)
	if err != nil {
		renderError(c, domain.ErrInvalidDateTime)
		return
	}

	aps, err := h.listByDate.Execute(c.Request.Context(), clinicID, date)
	if err != nil {
		renderError(c, err)
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	clinicID := clinicIDFrom(c)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	aps, err := h.listByMonth.Execute(c.Request.Context(), clinicID, year, month)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": aps,
	})
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.updateStatus.Execute(
		c.Request.Context(),
		clinicIDFrom(c),
		userIDFrom(c),
		id,
		strings.ToUpper(strings.TrimSpace(req.Status)),
		strings.TrimSpace(req.Reason),
	)
	if err != nil {
		renderError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	// body opcional
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(
		c.Request.Context(),
		clinicIDFrom(c),
		userIDFrom(c),
		id,
		strings.TrimSpace(req.Reason),
	)
	if err != nil {
		renderError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

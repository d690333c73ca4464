package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

type RulesHandler struct {
	db              *gorm.DB
	repo            domain.Repository
	paymentsEnabled bool
}

func NewRulesHandler(db *gorm.DB, repo domain.Repository, paymentsEnabled bool) *RulesHandler {
	return &RulesHandler{db: db, repo: repo, paymentsEnabled: paymentsEnabled}
}

// UpdateRulesRequest mirrors models.AppointmentRules; null resets a field to
// its default.
type UpdateRulesRequest struct {
	MinAdvanceBookingMinutes *int  `json:"min_advance_booking_minutes"`
	MaxAdvanceBookingDays    *int  `json:"max_advance_booking_days"`
	MaxBookingsPerDay        *int  `json:"max_bookings_per_day"`
	AllowCancellation        *bool `json:"allow_cancellation"`
	CancellationWindowHours  *int  `json:"cancellation_window_hours"`
	RequirePayment           *bool `json:"require_payment"`
}

type effectiveRules struct {
	MinAdvanceBookingMinutes int  `json:"min_advance_booking_minutes"`
	MaxAdvanceBookingDays    int  `json:"max_advance_booking_days"`
	MaxBookingsPerDay        int  `json:"max_bookings_per_day"`
	AllowCancellation        bool `json:"allow_cancellation"`
	CancellationWindowHours  int  `json:"cancellation_window_hours"`
	RequirePayment           bool `json:"require_payment"`
}

func toEffective(r domain.Rules) effectiveRules {
	return effectiveRules{
		MinAdvanceBookingMinutes: int(r.MinAdvance.Minutes()),
		MaxAdvanceBookingDays:    int(r.MaxAdvance.Hours() / 24),
		MaxBookingsPerDay:        r.MaxBookingsPerDay,
		AllowCancellation:        r.AllowCancellation,
		CancellationWindowHours:  int(r.CancellationWindow.Hours()),
		RequirePayment:           r.RequirePayment,
	}
}

// Get returns the stored overrides and the rules bookings actually use.
func (h *RulesHandler) Get(c *gin.Context) {
	stored, err := h.repo.GetAppointmentRules(c.Request.Context(), clinicIDFrom(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rules":     stored,
		"effective": toEffective(domain.RulesFromModel(stored)),
	})
}

func (h *RulesHandler) Update(c *gin.Context) {
	clinicID := clinicIDFrom(c)

	var req UpdateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if code := validateRules(req); code != "" {
		httperr.BadRequest(c, code, "Regras inválidas.")
		return
	}

	if req.RequirePayment != nil && *req.RequirePayment && !h.paymentsEnabled {
		httperr.Unprocessable(c, "payments_disabled", "Pagamento online não está configurado.")
		return
	}

	row := models.AppointmentRules{
		ClinicID:                 clinicID,
		MinAdvanceBookingMinutes: req.MinAdvanceBookingMinutes,
		MaxAdvanceBookingDays:    req.MaxAdvanceBookingDays,
		MaxBookingsPerDay:        req.MaxBookingsPerDay,
		AllowCancellation:        req.AllowCancellation,
		CancellationWindowHours:  req.CancellationWindowHours,
		RequirePayment:           req.RequirePayment,
	}

	if err := h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "clinic_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"min_advance_booking_minutes",
				"max_advance_booking_days",
				"max_bookings_per_day",
				"allow_cancellation",
				"cancellation_window_hours",
				"require_payment",
				"updated_at",
			}),
		}).
		Create(&row).Error; err != nil {

		httperr.Internal(c, "failed_to_save_rules", "Erro ao salvar regras.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rules":     row,
		"effective": toEffective(domain.RulesFromModel(&row)),
	})
}

func validateRules(req UpdateRulesRequest) string {
	nonNegative := func(v *int) bool { return v == nil || *v >= 0 }

	switch {
	case !nonNegative(req.MinAdvanceBookingMinutes):
		return "invalid_min_advance"
	case req.MaxAdvanceBookingDays != nil && *req.MaxAdvanceBookingDays < 1:
		return "invalid_max_advance"
	case !nonNegative(req.MaxBookingsPerDay):
		return "invalid_daily_cap"
	case !nonNegative(req.CancellationWindowHours):
		return "invalid_cancellation_window"
	}

	// unset fields fall back to defaults, so compare the effective window
	eff := domain.RulesFromModel(&models.AppointmentRules{
		MinAdvanceBookingMinutes: req.MinAdvanceBookingMinutes,
		MaxAdvanceBookingDays:    req.MaxAdvanceBookingDays,
	})
	if eff.MinAdvance >= eff.MaxAdvance {
		return "invalid_advance_range"
	}
	return ""
}

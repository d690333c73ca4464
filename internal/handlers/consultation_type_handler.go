package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

type ConsultationTypeHandler struct {
	db *gorm.DB
}

func NewConsultationTypeHandler(db *gorm.DB) *ConsultationTypeHandler {
	return &ConsultationTypeHandler{db: db}
}

// --------- Requests ---------

type CreateConsultationTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min" binding:"required,min=5,max=480"`
	FeeMinor    int64  `json:"fee_minor" binding:"min=0"`
	Currency    string `json:"currency"`
}

type UpdateConsultationTypeRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	DurationMin *int    `json:"duration_min,omitempty"`
	FeeMinor    *int64  `json:"fee_minor,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ConsultationTypeHandler) List(c *gin.Context) {
	activeStr := strings.TrimSpace(c.Query("active")) // "true", "false" ou vazio

	q := h.db.WithContext(c.Request.Context()).Where("clinic_id = ?", clinicIDFrom(c))

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	var types []models.ConsultationType
	if err := q.Order("id ASC").Find(&types).Error; err != nil {
		httperr.Internal(c, "failed_to_list_consultation_types", "Erro ao listar tipos de consulta.")
		return
	}

	c.JSON(http.StatusOK, types)
}

func (h *ConsultationTypeHandler) Create(c *gin.Context) {
	var req CreateConsultationTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "BRL"
	}

	ct := models.ConsultationType{
		ClinicID:    clinicIDFrom(c),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: req.DurationMin,
		FeeMinor:    req.FeeMinor,
		Currency:    currency,
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&ct).Error; err != nil {
		httperr.Internal(c, "failed_to_create_consultation_type", "Erro ao criar tipo de consulta.")
		return
	}

	c.JSON(http.StatusCreated, ct)
}

func (h *ConsultationTypeHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var ct models.ConsultationType
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND clinic_id = ?", id, clinicIDFrom(c)).
		First(&ct).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "consultation_type_not_found", "Tipo de consulta não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_consultation_type", "Erro ao buscar tipo de consulta.")
		return
	}

	var req UpdateConsultationTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		ct.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		ct.Description = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin < 5 || *req.DurationMin > 480 {
			httperr.BadRequest(c, "invalid_duration", "Duração inválida.")
			return
		}
		ct.DurationMin = *req.DurationMin
	}
	if req.FeeMinor != nil {
		if *req.FeeMinor < 0 {
			httperr.BadRequest(c, "invalid_fee", "Valor inválido.")
			return
		}
		ct.FeeMinor = *req.FeeMinor
	}
	if req.Active != nil {
		ct.Active = *req.Active
	}

	// Existing appointments keep the fee and end time they were booked with.
	if err := h.db.WithContext(c.Request.Context()).Save(&ct).Error; err != nil {
		httperr.Internal(c, "failed_to_update_consultation_type", "Erro ao atualizar tipo de consulta.")
		return
	}

	c.JSON(http.StatusOK, ct)
}

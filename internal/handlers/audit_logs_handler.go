package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

func pagination(pageStr, limitStr string) (page, limit, offset int) {
	page, _ = strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(limitStr)
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}

	return page, limit, (page - 1) * limit
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	clinicID := clinicIDFrom(c)
	ctx := c.Request.Context()

	page, limit, offset := pagination(
		c.DefaultQuery("page", "1"),
		c.DefaultQuery("limit", strconv.Itoa(defaultAuditLimit)),
	)

	var clinic models.Clinic
	if err := h.db.WithContext(ctx).Select("id", "timezone").First(&clinic, clinicID).Error; err != nil {
		httperr.NotFound(c, "clinic_not_found", "Clínica não encontrada.")
		return
	}

	// sempre protegido por clínica
	q := h.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("clinic_id = ?", clinicID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	// from/to are calendar days of the clinic, "to" inclusive
	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := timezone.ParseDate(clinic.Timezone, fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := timezone.ParseDate(clinic.Timezone, toStr); err == nil {
			q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}

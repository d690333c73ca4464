package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

type PatientHandler struct {
	db *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{db: db}
}

// ======================================================
// LIST PATIENTS
// ======================================================
func (h *PatientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("clinic_id = ?", clinicIDFrom(c))

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"(LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?)",
			like, like, like,
		)
	}

	var patients []models.Patient
	if err := q.
		Order("created_at DESC").
		Find(&patients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_patients", "Erro ao listar pacientes.")
		return
	}

	c.JSON(http.StatusOK, patients)
}

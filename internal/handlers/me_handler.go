package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-booking/internal/middleware"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := userIDFrom(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Clinic").
		Where("id = ? AND clinic_id = ?", *userID, c.MustGet(middleware.ContextClinicID)).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
		return
	}

	var doctor *models.DoctorProfile
	var dp models.DoctorProfile
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ? AND clinic_id = ?", user.ID, user.ClinicID).
		First(&dp).Error; err == nil {
		doctor = &dp
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           userJSON(&user),
		"clinic":         clinicJSON(&user.Clinic),
		"doctor_profile": doctor,
	})
}

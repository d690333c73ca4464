package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-booking/internal/config"
	"github.com/BruksfildServices01/clinic-booking/internal/middleware"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
	"github.com/BruksfildServices01/clinic-booking/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// --------- Requests ---------

type RegisterRequest struct {
	ClinicName     string `json:"clinic_name" binding:"required"`
	ClinicSlug     string `json:"clinic_slug" binding:"required"`
	ClinicPhone    string `json:"clinic_phone"`
	ClinicAddress  string `json:"clinic_address"`
	ClinicTimezone string `json:"clinic_timezone"`

	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"role":      u.Role,
		"clinic_id": u.ClinicID,
	}
}

func clinicJSON(cl *models.Clinic) gin.H {
	return gin.H{
		"id":       cl.ID,
		"name":     cl.Name,
		"slug":     cl.Slug,
		"phone":    cl.Phone,
		"address":  cl.Address,
		"timezone": cl.Timezone,
		"logo_url": cl.LogoURL,
	}
}

// --------- Handlers ---------

// Register creates the clinic, its owner account and the owner's doctor
// profile, so the public booking page works right away.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.ClinicSlug))
	if !slugPattern.MatchString(slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_slug"})
		return
	}

	tz := req.ClinicTimezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_timezone"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(c.Request.Context(), email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_email_domain",
			"message": "O domínio do e-mail informado não parece ser válido.",
		})
		return
	}

	ctx := c.Request.Context()

	var count int64
	h.db.WithContext(ctx).Model(&models.Clinic{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug_already_exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	clinic := models.Clinic{
		Name:     strings.TrimSpace(req.ClinicName),
		Slug:     slug,
		Phone:    req.ClinicPhone,
		Address:  req.ClinicAddress,
		Timezone: tz,
	}
	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&clinic).Error; err != nil {
			return err
		}

		user.ClinicID = clinic.ID
		if err := tx.Omit("Clinic").Create(&user).Error; err != nil {
			return err
		}

		return tx.Create(&models.DoctorProfile{
			ClinicID:    clinic.ID,
			UserID:      &user.ID,
			DisplayName: req.Name,
			Specialty:   req.Specialty,
			Active:      true,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_clinic"})
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, user.ID, clinic.ID, user.Role, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   userJSON(&user),
		"clinic": clinicJSON(&clinic),
		"token":  token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Clinic").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, user.ID, user.ClinicID, user.Role, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   userJSON(&user),
		"clinic": clinicJSON(&user.Clinic),
		"token":  token,
	})
}

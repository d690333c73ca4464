package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/media"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
	"github.com/BruksfildServices01/clinic-booking/internal/timezone"
)

// LogoUploader stores an uploaded clinic logo and returns its public URL.
type LogoUploader interface {
	Upload(ctx context.Context, clinicID uint, r io.Reader) (string, error)
}

type ClinicHandler struct {
	db    *gorm.DB
	logos LogoUploader
}

// NewClinicHandler accepts a nil uploader when logo storage is not configured.
func NewClinicHandler(db *gorm.DB, logos LogoUploader) *ClinicHandler {
	return &ClinicHandler{db: db, logos: logos}
}

type UpdateClinicRequest struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Timezone      *string `json:"timezone"`
	BufferMinutes *int    `json:"buffer_minutes"`
}

func (h *ClinicHandler) load(c *gin.Context) (*models.Clinic, bool) {
	var clinic models.Clinic
	if err := h.db.WithContext(c.Request.Context()).First(&clinic, clinicIDFrom(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "clinic_not_found", "Clínica não encontrada.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_clinic", "Erro ao buscar dados da clínica.")
		return nil, false
	}
	return &clinic, true
}

func (h *ClinicHandler) Get(c *gin.Context) {
	clinic, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, clinic)
}

func (h *ClinicHandler) Update(c *gin.Context) {
	clinic, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
			return
		}
		clinic.Name = name
	}
	if req.Phone != nil {
		clinic.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		clinic.Address = strings.TrimSpace(*req.Address)
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		clinic.Timezone = *req.Timezone
	}
	if req.BufferMinutes != nil {
		if *req.BufferMinutes < 0 {
			httperr.BadRequest(c, "invalid_buffer", "Intervalo entre consultas deve ser zero ou positivo (em minutos).")
			return
		}
		clinic.BufferMinutes = *req.BufferMinutes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(clinic).Error; err != nil {
		httperr.Internal(c, "failed_to_update_clinic", "Erro ao salvar as configurações da clínica.")
		return
	}

	c.JSON(http.StatusOK, clinic)
}

// UploadLogo expects a multipart field named "logo".
func (h *ClinicHandler) UploadLogo(c *gin.Context) {
	if h.logos == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "media_disabled", "Upload de imagens não configurado.")
		return
	}

	clinic, ok := h.load(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "missing_logo", "Arquivo de logo obrigatório.")
		return
	}
	if fh.Size > media.MaxLogoBytes {
		httperr.BadRequest(c, "logo_too_large", "Arquivo muito grande.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "missing_logo", "Arquivo de logo obrigatório.")
		return
	}
	defer f.Close()

	url, err := h.logos.Upload(c.Request.Context(), clinic.ID, f)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			httperr.BadRequest(c, "unsupported_image", "Envie uma imagem PNG ou JPEG.")
			return
		}
		observability.LoggerFromContext(c.Request.Context()).Error().
			Err(err).
			Uint("clinic_id", clinic.ID).
			Msg("logo upload failed")
		httperr.Internal(c, "logo_upload_failed", "Erro ao enviar logo.")
		return
	}

	clinic.LogoURL = url
	if err := h.db.WithContext(c.Request.Context()).
		Model(clinic).
		Update("logo_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_clinic", "Erro ao salvar as configurações da clínica.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}

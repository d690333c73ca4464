package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

// AvailabilityHandler manages the weekly opening windows of the clinic.
// A day with a lunch break is sent as two windows.
type AvailabilityHandler struct {
	db *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

type WindowConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type AvailabilityUpdateRequest struct {
	Windows []WindowConfig `json:"windows"`
}

func (h *AvailabilityHandler) Get(c *gin.Context) {
	var windows []models.AvailabilityWindow
	if err := h.db.WithContext(c.Request.Context()).
		Where("clinic_id = ?", clinicIDFrom(c)).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error; err != nil {

		httperr.Internal(c, "failed_to_get_availability", "Erro ao buscar horários.")
		return
	}

	c.JSON(http.StatusOK, windows)
}

// Update replaces every window of the clinic in one transaction.
func (h *AvailabilityHandler) Update(c *gin.Context) {
	clinicID := clinicIDFrom(c)

	var req AvailabilityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	windows, code := buildWindows(clinicID, req.Windows)
	if code != "" {
		httperr.BadRequest(c, code, "Horários inválidos.")
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("clinic_id = ?", clinicID).Delete(&models.AvailabilityWindow{}).Error; err != nil {
			return err
		}
		if len(windows) == 0 {
			return nil
		}
		return tx.Create(&windows).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_availability", "Erro ao salvar horários.")
		return
	}

	c.JSON(http.StatusOK, windows)
}

// buildWindows validates the request and returns the rows to insert, or the
// error code of the first problem found.
func buildWindows(clinicID uint, in []WindowConfig) ([]models.AvailabilityWindow, string) {
	type span struct {
		weekday    int
		start, end int64
	}

	spans := make([]span, 0, len(in))
	out := make([]models.AvailabilityWindow, 0, len(in))

	for _, w := range in {
		if w.Weekday < 0 || w.Weekday > 6 {
			return nil, "invalid_weekday"
		}
		start, err := domain.ParseClock(w.StartTime)
		if err != nil {
			return nil, "invalid_time_format"
		}
		end, err := domain.ParseClock(w.EndTime)
		if err != nil {
			return nil, "invalid_time_format"
		}
		if start >= end {
			return nil, "invalid_window_range"
		}

		spans = append(spans, span{w.Weekday, int64(start), int64(end)})
		out = append(out, models.AvailabilityWindow{
			ClinicID:  clinicID,
			Weekday:   w.Weekday,
			StartTime: domain.FormatClock(start),
			EndTime:   domain.FormatClock(end),
		})
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].weekday != spans[j].weekday {
			return spans[i].weekday < spans[j].weekday
		}
		return spans[i].start < spans[j].start
	})
	for i := 1; i < len(spans); i++ {
		if spans[i].weekday == spans[i-1].weekday && spans[i].start < spans[i-1].end {
			return nil, "overlapping_windows"
		}
	}

	return out, ""
}

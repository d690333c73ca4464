package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/middleware"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
)

// renderError writes err and logs it when it is not a business error.
func renderError(c *gin.Context, err error) {
	if _, ok := httperr.CodeOf(err); !ok {
		logger := observability.LoggerFromContext(c.Request.Context())
		ev := logger.Error().Err(err).Str("path", c.FullPath())
		if id, ok := c.Get(middleware.ContextClinicID); ok {
			ev = ev.Interface("clinic_id", id)
		}
		if slug := c.Param("slug"); slug != "" {
			ev = ev.Str("clinic_slug", slug)
		}
		ev.Msg("request failed")
	}
	httperr.Render(c, err)
}

func clinicIDFrom(c *gin.Context) uint {
	return c.MustGet(middleware.ContextClinicID).(uint)
}

func userIDFrom(c *gin.Context) *uint {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(id), true
}

func parseOptionalUint(raw string) (uint, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

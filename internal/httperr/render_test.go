package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Render(c, err)

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRenderBusinessCodes(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{"slot_no_longer_available", http.StatusConflict},
		{"clinic_not_found", http.StatusNotFound},
		{"daily_cap_exceeded", http.StatusUnprocessableEntity},
		{"something_new", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w, body := render(t, fmt.Errorf("wrapped: %w", ErrBusiness(tt.code)))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestRenderUnexpectedError(t *testing.T) {
	w, body := render(t, errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "storage_failure", body.Code)
}

func TestIsBusiness(t *testing.T) {
	err := fmt.Errorf("ctx: %w", ErrBusiness("day_closed"))

	assert.True(t, IsBusiness(err, "day_closed"))
	assert.False(t, IsBusiness(err, "invalid_slot"))
	assert.True(t, errors.Is(err, ErrBusiness("day_closed")))
}

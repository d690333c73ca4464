package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PENDING_HOLD_TTL", "")
	t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, time.Duration(0), cfg.PendingHoldTTL)
	assert.Equal(t, time.Minute, cfg.ExpiryInterval)
	assert.False(t, cfg.PaymentsEnabled())
}

func TestLoadDurations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"seconds", "90", 90 * time.Second},
		{"go duration", "15m", 15 * time.Minute},
		{"invalid falls back", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PENDING_HOLD_TTL", tt.raw)
			assert.Equal(t, tt.want, Load().PendingHoldTTL)
		})
	}
}

func TestFeatureToggles(t *testing.T) {
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "token")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "")
	t.Setenv("S3_BUCKET", "logos")

	cfg := Load()

	assert.False(t, cfg.WhatsAppEnabled())
	assert.True(t, cfg.MediaEnabled())
}

func TestCORSOriginsList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, Load().CORSAllowedOrigins)
}

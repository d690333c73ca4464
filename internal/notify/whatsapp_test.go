package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWhatsAppCloudSender(t *testing.T) {
	_, err := NewWhatsAppCloudSender("", "123")
	assert.Error(t, err)

	_, err = NewWhatsAppCloudSender("token", "")
	assert.Error(t, err)

	s, err := NewWhatsAppCloudSender("token", "123")
	require.NoError(t, err)
	assert.Equal(t, whatsAppBaseURL, s.baseURL)
}

func TestWhatsAppSendTemplate(t *testing.T) {
	var got templateMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/123/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.test123"}]}`))
	}))
	defer server.Close()

	s, err := NewWhatsAppCloudSender("token", "123")
	require.NoError(t, err)
	s.WithBaseURL(server.URL)

	id, err := s.SendTemplate(context.Background(), "5511999990000", "appointment_booked", "pt_BR", []string{"Ana", "Clínica"})
	require.NoError(t, err)

	assert.Equal(t, "wamid.test123", id)
	assert.Equal(t, "5511999990000", got.To)
	assert.Equal(t, "appointment_booked", got.Template.Name)
	assert.Equal(t, "pt_BR", got.Template.Language.Code)
	require.Len(t, got.Template.Components, 1)
	assert.Equal(t, "Clínica", got.Template.Components[0].Parameters[1].Text)
}

func TestWhatsAppSendTemplateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"message":"Invalid parameter"}}`},
		{"no message id", http.StatusOK, `{"messages":[]}`},
		{"bad json", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			s, _ := NewWhatsAppCloudSender("token", "123")
			_, err := s.WithBaseURL(server.URL).SendTemplate(context.Background(), "1", "t", "pt_BR", nil)
			assert.Error(t, err)
		})
	}
}

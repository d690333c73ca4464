package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const whatsAppBaseURL = "https://graph.facebook.com/v18.0"

// WhatsAppCloudSender sends messages through the WhatsApp Cloud API.
type WhatsAppCloudSender struct {
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
	baseURL       string
}

func NewWhatsAppCloudSender(accessToken, phoneNumberID string) (*WhatsAppCloudSender, error) {
	if accessToken == "" || phoneNumberID == "" {
		return nil, fmt.Errorf("whatsapp access token and phone number id must be set")
	}

	return &WhatsAppCloudSender{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: whatsAppBaseURL,
	}, nil
}

// WithBaseURL points the sender at another Graph API host.
func (w *WhatsAppCloudSender) WithBaseURL(u string) *WhatsAppCloudSender {
	w.baseURL = u
	return w
}

type templateMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         templateBody `json:"template"`
}

type templateBody struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []templateComponent `json:"components,omitempty"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type whatsAppResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendTemplate sends an approved template, body parameters in order.
func (w *WhatsAppCloudSender) SendTemplate(
	ctx context.Context,
	to, templateName, languageCode string,
	parameters []string,
) (string, error) {

	var components []templateComponent
	if len(parameters) > 0 {
		params := make([]templateParameter, len(parameters))
		for i, p := range parameters {
			params[i] = templateParameter{Type: "text", Text: p}
		}
		components = append(components, templateComponent{Type: "body", Parameters: params})
	}

	return w.send(ctx, templateMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "template",
		Template: templateBody{
			Name:       templateName,
			Language:   templateLanguage{Code: languageCode},
			Components: components,
		},
	})
}

func (w *WhatsAppCloudSender) send(ctx context.Context, message any) (string, error) {
	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)

	payload, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whatsapp api error (status %d): %s", resp.StatusCode, string(body))
	}

	var out whatsAppResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Messages) == 0 {
		return "", fmt.Errorf("no message id in response")
	}
	return out.Messages[0].ID, nil
}

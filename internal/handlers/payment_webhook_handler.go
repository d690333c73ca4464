package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-booking/internal/httperr"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
	"github.com/BruksfildServices01/clinic-booking/internal/usecase/appointment"
)

// PaymentWebhookHandler receives MercadoPago notifications. The payload is
// only a pointer: the payment itself is re-read from the gateway.
type PaymentWebhookHandler struct {
	markPaid *appointment.MarkPaid
}

func NewPaymentWebhookHandler(markPaid *appointment.MarkPaid) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{markPaid: markPaid}
}

type webhookBody struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// paymentIDFrom accepts both notification styles: "type=payment&data.id=…"
// (query or JSON body) and the legacy "topic=payment&id=…".
func paymentIDFrom(c *gin.Context) (string, bool) {
	if c.Query("type") == "payment" && c.Query("data.id") != "" {
		return c.Query("data.id"), true
	}
	if c.Query("topic") == "payment" && c.Query("id") != "" {
		return c.Query("id"), true
	}

	var body webhookBody
	if err := c.ShouldBindJSON(&body); err == nil && body.Type == "payment" && body.Data.ID != "" {
		return body.Data.ID, true
	}
	return "", false
}

func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	paymentID, ok := paymentIDFrom(c)
	if !ok {
		// merchant_order e afins: nada a fazer
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ap, err := h.markPaid.Execute(c.Request.Context(), paymentID)
	if code, ok := httperr.CodeOf(err); ok {
		// unknown booking: retrying will not help
		observability.LoggerFromContext(c.Request.Context()).Warn().
			Str("payment_id", paymentID).
			Str("code", code).
			Msg("payment webhook ignored")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	if err != nil {
		observability.LoggerFromContext(c.Request.Context()).Error().
			Err(err).
			Str("payment_id", paymentID).
			Msg("payment webhook failed")
		// non-2xx makes the gateway retry
		httperr.Internal(c, "payment_verification_failed", "Erro ao verificar pagamento.")
		return
	}

	if ap == nil {
		c.JSON(http.StatusOK, gin.H{"status": "pending"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "paid",
		"booking_ref": ap.BookingRef,
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

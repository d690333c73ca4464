package payments

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
)

const statusApproved = "approved"

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentGetter interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// MercadoPagoGateway implements appointment.PaymentGateway with Checkout Pro
// preferences. The booking is carried in ExternalReference as
// "<clinic id>:<booking ref>".
type MercadoPagoGateway struct {
	preferences     preferenceCreator
	payments        paymentGetter
	notificationURL string
}

func NewMercadoPagoGateway(accessToken, notificationURL string) (*MercadoPagoGateway, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPagoGateway{
		preferences:     preference.NewClient(cfg),
		payments:        payment.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

var _ domain.PaymentGateway = (*MercadoPagoGateway)(nil)

func (g *MercadoPagoGateway) CreateCheckout(ctx context.Context, c domain.Checkout) (string, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{{
			ID:         c.BookingRef,
			Title:      c.Title,
			Quantity:   1,
			UnitPrice:  MinorToDecimal(c.AmountMinor),
			CurrencyID: c.Currency,
		}},
		ExternalReference: ExternalReference(c.ClinicID, c.BookingRef),
		NotificationURL:   g.notificationURL,
	}
	if c.PayerEmail != "" {
		req.Payer = &preference.PayerRequest{Email: c.PayerEmail}
	}

	res, err := g.preferences.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create preference: %w", err)
	}
	return res.InitPoint, nil
}

func (g *MercadoPagoGateway) VerifyPayment(ctx context.Context, paymentID string) (*domain.PaymentResult, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q", paymentID)
	}

	p, err := g.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	clinicID, ref, err := ParseExternalReference(p.ExternalReference)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentResult{
		PaymentID:  strconv.Itoa(p.ID),
		ClinicID:   clinicID,
		BookingRef: ref,
		Status:     p.Status,
		Approved:   p.Status == statusApproved,
	}, nil
}

func ExternalReference(clinicID uint, bookingRef string) string {
	return fmt.Sprintf("%d:%s", clinicID, bookingRef)
}

func ParseExternalReference(s string) (uint, string, error) {
	head, ref, ok := strings.Cut(s, ":")
	if !ok || ref == "" {
		return 0, "", fmt.Errorf("external reference %q: missing booking ref", s)
	}
	id, err := strconv.ParseUint(head, 10, 64)
	if err != nil || id == 0 {
		return 0, "", fmt.Errorf("external reference %q: bad clinic id", s)
	}
	return uint(id), ref, nil
}

// MinorToDecimal converts centavos to the decimal amount the API expects.
func MinorToDecimal(minor int64) float64 {
	return float64(minor) / 100
}

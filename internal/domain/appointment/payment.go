package appointment

import "context"

const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Checkout describes what the patient is asked to pay for one booking.
type Checkout struct {
	ClinicID    uint
	BookingRef  string
	Title       string
	AmountMinor int64
	Currency    string
	PayerEmail  string
}

// PaymentResult is the gateway's view of a payment, resolved back to the
// booking it was created for.
type PaymentResult struct {
	PaymentID  string
	ClinicID   uint
	BookingRef string
	Status     string
	Approved   bool
}

type PaymentGateway interface {
	// CreateCheckout returns the URL the patient is redirected to.
	CreateCheckout(ctx context.Context, c Checkout) (string, error)
	VerifyPayment(ctx context.Context, paymentID string) (*PaymentResult, error)
}

package payments

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// Provider creates payment intents for appointment deposits. Capture and
// webhooks are out of scope; the intent secret is handed back to the client.
type Provider interface {
	CreateIntent(amountCents int64, currency string, appointmentID int64, idempotencyKey string) (*Intent, error)
}

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
}

type StripeProvider struct {
	enabled bool
}

func NewStripeProvider(secretKey string) *StripeProvider {
	p := &StripeProvider{enabled: secretKey != ""}
	if p.enabled {
		stripe.Key = secretKey
	}
	return p
}

func (p *StripeProvider) CreateIntent(amountCents int64, currency string, appointmentID int64, idempotencyKey string) (*Intent, error) {
	if !p.enabled {
		return nil, errors.New("payments disabled (missing STRIPE_SECRET_KEY)")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("appointment_id", fmt.Sprintf("%d", appointmentID))
	if idempotencyKey != "" {
		params.IdempotencyKey = stripe.String(idempotencyKey)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

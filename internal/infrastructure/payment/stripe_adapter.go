package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/venuedesk/backend/internal/application/effect"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// StripeAdapter implements PaymentGateway using Stripe hosted checkout.
// One checkout session is created per payable document; the document number
// travels as the session's client reference ID and comes back on the webhook.
type StripeAdapter struct {
	config *StripeConfig
	api    *client.API
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	api := &client.API{}
	api.Init(config.SecretKey, &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			HTTPClient: &http.Client{Timeout: config.RequestTimeout},
		}),
	})

	return &StripeAdapter{
		config: config,
		api:    api,
	}, nil
}

// CreateCheckoutLink creates a hosted checkout session and returns its URL.
// The amount is converted to the currency's smallest unit for Stripe.
func (a *StripeAdapter) CreateCheckoutLink(ctx context.Context, amount valueobject.Money, reference string, metadata map[string]string) (string, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("stripe: checkout amount must be positive, got %s", amount.String())
	}
	if reference == "" {
		return "", fmt.Errorf("stripe: checkout reference is required")
	}

	unitAmount := amount.Amount().Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(reference),
		SuccessURL:        stripe.String(a.config.SuccessURL),
		CancelURL:         stripe.String(a.config.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(string(amount.Currency()))),
					UnitAmount: stripe.Int64(unitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(reference),
					},
				},
			},
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.AddMetadata("reference", reference)

	sess, err := a.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	return sess.URL, nil
}

// VerifyCallback checks the webhook signature and converts a completed
// checkout event into a gateway-neutral callback. Events other than a
// completed checkout are rejected; the endpoint subscribes to completed
// checkouts only.
func (a *StripeAdapter) VerifyCallback(ctx context.Context, payload []byte, signature string) (*effect.CheckoutCallback, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, a.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("stripe: webhook signature verification failed: %w", err)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
	default:
		return nil, fmt.Errorf("stripe: unhandled event type %q", event.Type)
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe: failed to parse checkout session: %w", err)
	}

	amount := decimal.NewFromInt(sess.AmountTotal).Div(decimal.NewFromInt(100))
	currency := valueobject.Currency(strings.ToUpper(string(sess.Currency)))
	money, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return nil, fmt.Errorf("stripe: invalid callback amount: %w", err)
	}

	return &effect.CheckoutCallback{
		EventID:   event.ID,
		Reference: sess.ClientReferenceID,
		Amount:    money,
		Method:    "stripe",
		PaidAt:    time.Unix(event.Created, 0).UTC(),
	}, nil
}

// Ensure StripeAdapter implements PaymentGateway
var _ effect.PaymentGateway = (*StripeAdapter)(nil)

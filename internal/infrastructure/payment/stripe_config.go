package payment

import (
	"errors"
	"time"
)

// StripeConfig holds Stripe API credentials and checkout settings
type StripeConfig struct {
	// SecretKey is the sk_... API key
	SecretKey string
	// WebhookSecret is the whsec_... signing secret for the webhook endpoint
	WebhookSecret string
	// SuccessURL is where the customer lands after paying
	SuccessURL string
	// CancelURL is where the customer lands after abandoning checkout
	CancelURL string
	// RequestTimeout bounds outbound API calls
	RequestTimeout time.Duration
}

// Validate checks that the configuration is usable
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return errors.New("stripe: secret key is required")
	}
	if c.WebhookSecret == "" {
		return errors.New("stripe: webhook secret is required")
	}
	if c.SuccessURL == "" {
		return errors.New("stripe: success URL is required")
	}
	if c.CancelURL == "" {
		return errors.New("stripe: cancel URL is required")
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	return nil
}

// File: internal/services/billing/config.go
package billing

import (
	"fmt"
	"time"
)

type Config struct {
	// Provider credentials and endpoint. APIBase is overridable for tests.
	SecretKey string
	APIBase   string

	// Hosted checkout return URLs. SuccessURL must carry the provider's
	// {CHECKOUT_SESSION_ID} placeholder so the browser can report back.
	SuccessURL string
	CancelURL  string

	// Plan catalogue: plan id -> provider price id.
	PriceIDs map[string]string

	Timeout time.Duration

	// How long reconciliation waits before re-reading provider state, giving
	// the provider's asynchronous webhook processing a chance to land.
	ReconcileDelay time.Duration
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if c.SuccessURL == "" {
		return fmt.Errorf("checkout success URL is required")
	}
	if len(c.PriceIDs) == 0 {
		return fmt.Errorf("at least one plan price ID is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		APIBase:        "https://api.stripe.com",
		Timeout:        30 * time.Second,
		ReconcileDelay: 2 * time.Second,
	}
}

// File: internal/services/billing/stripe_provider.go
package billing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StripeProvider integrates Stripe's hosted Checkout over its form-encoded
// REST API. Only the server ever holds the secret key.
type StripeProvider struct {
	config *Config
	client *http.Client
}

func NewStripeProvider(config *Config) *StripeProvider {
	return &StripeProvider{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// stripeSession mirrors the fields of Stripe's checkout.session object we
// care about.
type stripeSession struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	Status            string `json:"status"`
	PaymentStatus     string `json:"payment_status"`
	ClientReferenceID string `json:"client_reference_id"`
	Subscription      string `json:"subscription"`
}

type stripeSubscription struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
}

type stripeErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreateCheckoutSession asks Stripe for a hosted payment page URL.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, userID uint, priceID string) (*CheckoutSession, error) {
	if userID == 0 {
		return nil, &BillingError{Type: ErrTypeValidation, Message: "user ID is required"}
	}
	if priceID == "" {
		return nil, &BillingError{Type: ErrTypeValidation, Message: "price ID is required"}
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", p.config.SuccessURL)
	form.Set("cancel_url", p.config.CancelURL)
	form.Set("client_reference_id", strconv.FormatUint(uint64(userID), 10))

	var sess stripeSession
	if err := p.sendRequest(ctx, http.MethodPost, "/v1/checkout/sessions", form, &sess); err != nil {
		return nil, err
	}

	if sess.ID == "" || sess.URL == "" {
		return nil, &BillingError{Type: ErrTypeProvider, Message: "checkout session response missing id or url"}
	}

	return sessionFromStripe(&sess), nil
}

// GetCheckoutSession re-reads a hosted session's state after the user returns.
func (p *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	if sessionID == "" {
		return nil, &BillingError{Type: ErrTypeValidation, Message: "session ID is required"}
	}

	var sess stripeSession
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := p.sendRequest(ctx, http.MethodGet, path, nil, &sess); err != nil {
		return nil, err
	}

	return sessionFromStripe(&sess), nil
}

func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	if subscriptionID == "" {
		return nil, &BillingError{Type: ErrTypeValidation, Message: "subscription ID is required"}
	}

	var sub stripeSubscription
	path := "/v1/subscriptions/" + url.PathEscape(subscriptionID)
	if err := p.sendRequest(ctx, http.MethodGet, path, nil, &sub); err != nil {
		return nil, err
	}

	return &Subscription{
		ID:               sub.ID,
		Status:           sub.Status,
		CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
	}, nil
}

func (p *StripeProvider) sendRequest(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, p.config.APIBase+path, body)
	if err != nil {
		return &BillingError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Authorization", "Bearer "+p.config.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		// Checkout session creation is retried by callers; the idempotency
		// key keeps duplicate sessions from being opened.
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &BillingError{Type: ErrTypeNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return p.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &BillingError{Type: ErrTypeProvider, Message: "malformed provider response", Cause: err}
	}
	return nil
}

func (p *StripeProvider) handleErrorResponse(resp *http.Response) error {
	responseBody, _ := io.ReadAll(resp.Body)

	message := strings.TrimSpace(string(responseBody))
	var errBody stripeErrorBody
	if json.Unmarshal(responseBody, &errBody) == nil && errBody.Error.Message != "" {
		message = errBody.Error.Message
	}

	return &BillingError{
		Type:    ErrTypeProvider,
		Code:    resp.StatusCode,
		Message: message,
	}
}

func (p *StripeProvider) HealthCheck(ctx context.Context) error {
	return nil
}

func sessionFromStripe(sess *stripeSession) *CheckoutSession {
	return &CheckoutSession{
		ID:                sess.ID,
		URL:               sess.URL,
		Status:            sess.Status,
		PaymentStatus:     sess.PaymentStatus,
		ClientReferenceID: sess.ClientReferenceID,
		SubscriptionID:    sess.Subscription,
	}
}

// File: internal/handlers/billing_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shadowai/shadowai/internal/dtos"
	"github.com/shadowai/shadowai/internal/middleware"
	"github.com/shadowai/shadowai/internal/services"
)

type BillingHandler struct {
	BillingService      *services.BillingService
	SubscriptionService *services.SubscriptionService
}

func NewBillingHandler(bs *services.BillingService, ss *services.SubscriptionService) *BillingHandler {
	return &BillingHandler{BillingService: bs, SubscriptionService: ss}
}

// GetSubscription returns the caller's current tier.
func (h *BillingHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sub, err := h.SubscriptionService.GetStatus(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve subscription", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.SubscriptionFromDomain(*sub))
}

// StartCheckout opens a hosted checkout session and returns its redirect URL.
func (h *BillingHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	start, err := h.BillingService.StartCheckout(r.Context(), userID, req.Plan)
	if err != nil {
		writeError(w, "Could not start checkout: "+err.Error(), billingErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, start)
}

// Reconcile syncs local subscription state with the provider after the
// browser returns from hosted checkout.
func (h *BillingHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.BillingService.Reconcile(r.Context(), userID, req.SessionID)
	if err != nil {
		writeError(w, "Could not verify checkout: "+err.Error(), billingErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activated":    result.Activated,
		"subscription": dtos.SubscriptionFromDomain(*result.Subscriber),
	})
}

// File: internal/handlers/common.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shadowai/shadowai/internal/services/billing"
	"github.com/shadowai/shadowai/internal/services/chat"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// chatErrorStatus maps a chat service error to the HTTP status it should
// surface as. Ownership failures deliberately read as "not found" so the
// API never confirms another user's conversation ids.
func chatErrorStatus(err error) int {
	switch chat.TypeOf(err) {
	case chat.ErrTypeValidation:
		return http.StatusBadRequest
	case chat.ErrTypeUnauthorized, chat.ErrTypeNotFound:
		return http.StatusNotFound
	case chat.ErrTypeUpstream, chat.ErrTypeProtocol:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func billingErrorStatus(err error) int {
	var billErr *billing.BillingError
	if !errors.As(err, &billErr) {
		return http.StatusInternalServerError
	}
	switch billErr.Type {
	case billing.ErrTypeValidation:
		return http.StatusBadRequest
	case billing.ErrTypeNetwork, billing.ErrTypeProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// File: internal/handlers/auth_handlers.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/shadowai/shadowai/internal/dtos"
	"github.com/shadowai/shadowai/internal/middleware"
	"github.com/shadowai/shadowai/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	AuthService *user_services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *user_services.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: service}
}

// Register handles new account creation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.UserRegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.AuthService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("[AuthHandler] registration failed: %v", err)
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.FromDomain(*account))
}

// Login validates credentials, sets the auth cookie and returns the token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.UserLoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("[AuthHandler] login failed: %v", err)
		writeError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, dtos.UserLoginResponseDTO{
		User:  dtos.FromDomain(*account),
		Token: token,
	})
}

// Logout clears the auth cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

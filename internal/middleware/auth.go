// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shadowai/shadowai/internal/services/user_services"
)

const AuthCookieName = "auth_token"

// NewJWTMiddleware validates the caller's JWT and stores the user id on the
// request context. The token is read from the Authorization header when
// present, otherwise from the auth cookie so browser websocket upgrades work.
func NewJWTMiddleware(authService *user_services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			fromCookie := false
			if token == "" {
				cookie, err := r.Cookie(AuthCookieName)
				if err != nil {
					log.Printf("[AuthMiddleware] missing credentials for %s", r.URL.Path)
					writeUnauthorized(w)
					return
				}
				token = cookie.Value
				fromCookie = true
			}

			userID, err := authService.ValidateJWTToken(token)
			if err != nil {
				log.Printf("[AuthMiddleware] invalid token: %v", err)
				if fromCookie {
					clearAuthCookie(w)
				}
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}

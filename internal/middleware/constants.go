// File: internal/middleware/constants.go
package middleware

import "context"

// Context keys for middleware communication
type contextKey string

const UserIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user id placed by the JWT
// middleware, or false when the request is unauthenticated.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	return userID, ok
}

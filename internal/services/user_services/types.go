// File: internal/services/user_services/types.go
package user_services

// Logger interface for all user services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// maskEmail hides the local part of an email for log output.
func maskEmail(email string) string {
	for i, r := range email {
		if r == '@' {
			if i <= 2 {
				return "****" + email[i:]
			}
			return email[:2] + "****" + email[i:]
		}
	}
	return "****"
}

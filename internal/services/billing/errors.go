// File: internal/services/billing/errors.go
package billing

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeCheckout   ErrorType = "CHECKOUT"
)

type BillingError struct {
	Type    ErrorType
	Code    int // HTTP status returned by the billing provider, when known
	Message string
	Cause   error
}

func (e *BillingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Billing %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("Billing %s error: %s", e.Type, e.Message)
}

func (e *BillingError) Unwrap() error { return e.Cause }

func NewCheckoutError(msg string, cause error) *BillingError {
	return &BillingError{Type: ErrTypeCheckout, Message: msg, Cause: cause}
}

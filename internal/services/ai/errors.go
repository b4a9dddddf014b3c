// File: internal/services/ai/errors.go
package ai

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeUpstream   ErrorType = "UPSTREAM"
	ErrTypeProtocol   ErrorType = "PROTOCOL"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type AIError struct {
	Type      ErrorType
	Code      int // HTTP status returned by the completion endpoint, when known
	Message   string
	Model     string
	Operation string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error { return e.Cause }

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

// NewUpstreamError marks a non-success response from the completion endpoint.
func NewUpstreamError(operation string, code int, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeUpstream, Code: code, Operation: operation, Message: msg, Cause: cause}
}

// NewProtocolError marks a success response with an unexpected shape.
func NewProtocolError(operation, msg string) *AIError {
	return &AIError{Type: ErrTypeProtocol, Operation: operation, Message: msg}
}

// IsUpstream reports whether err is an upstream (non-2xx or transport) failure,
// which is safe for the caller to retry as a whole turn.
func IsUpstream(err error) bool {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Type == ErrTypeUpstream || aiErr.Type == ErrTypeNetwork
	}
	return false
}

// IsProtocol reports whether err is a malformed-reply failure.
func IsProtocol(err error) bool {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Type == ErrTypeProtocol
	}
	return false
}

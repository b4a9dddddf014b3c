// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig       ErrorType = "CONFIG"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeUpstream     ErrorType = "UPSTREAM"
	ErrTypeProtocol     ErrorType = "PROTOCOL"
	ErrTypePersistence  ErrorType = "PERSISTENCE"
)

type ChatError struct {
	Type           ErrorType
	Operation      string
	Message        string
	ConversationID uint
	UserID         uint
	Cause          error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewUnauthorizedError(userID, conversationID uint) *ChatError {
	return &ChatError{
		Type:           ErrTypeUnauthorized,
		Operation:      "authorization",
		Message:        "conversation not found or unauthorized",
		UserID:         userID,
		ConversationID: conversationID,
	}
}

// NewPersistenceError marks a failed durable write or read.
func NewPersistenceError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypePersistence, Operation: operation, Message: msg, Cause: cause}
}

// NewUpstreamError marks a failed completion call; the turn is safe to retry.
func NewUpstreamError(operation string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeUpstream, Operation: operation, Message: "completion endpoint failed", Cause: cause}
}

// NewProtocolError marks a completion reply with an unexpected shape.
func NewProtocolError(operation string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeProtocol, Operation: operation, Message: "unexpected completion response", Cause: cause}
}

// TypeOf extracts the taxonomy type from err, or "" when err is not a ChatError.
func TypeOf(err error) ErrorType {
	var chatErr *ChatError
	if errors.As(err, &chatErr) {
		return chatErr.Type
	}
	return ""
}

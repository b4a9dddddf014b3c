// File: internal/dtos/user.go
package dtos

import (
	"time"

	"github.com/shadowai/shadowai/internal/domain"
)

// UserResponseDTO defines what fields to expose in user API responses.
// The password hash never leaves the service.
type UserResponseDTO struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// UserRegisterRequestDTO represents the expected payload to create an account.
type UserRegisterRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequestDTO represents the login payload.
type UserLoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginResponseDTO represents the login response.
type UserLoginResponseDTO struct {
	User  UserResponseDTO `json:"user"`
	Token string          `json:"token"`
}

// SubscriptionStatusDTO is the public view of a billing-status row.
type SubscriptionStatusDTO struct {
	Subscribed       bool   `json:"subscribed"`
	SubscriptionTier string `json:"subscription_tier"`
	SubscriptionEnd  string `json:"subscription_end,omitempty"`
}

// FromDomain maps a domain.User to UserResponseDTO for public API responses.
func FromDomain(user domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// SubscriptionFromDomain maps a subscriber row to its public view.
func SubscriptionFromDomain(sub domain.Subscriber) SubscriptionStatusDTO {
	dto := SubscriptionStatusDTO{
		Subscribed:       sub.Subscribed,
		SubscriptionTier: sub.SubscriptionTier,
	}
	if dto.SubscriptionTier == "" {
		dto.SubscriptionTier = domain.TierFree
	}
	if sub.SubscriptionEnd != nil {
		dto.SubscriptionEnd = sub.SubscriptionEnd.Format(time.RFC3339)
	}
	return dto
}

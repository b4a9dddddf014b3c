// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shadowai/shadowai/internal/domain"
	"github.com/shadowai/shadowai/internal/repository/user"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		s.logger.Warn("login attempt with empty credentials",
			"has_email", email != "",
			"has_password", password != "")
		return nil, "", errors.New("email and password are required")
	}

	s.logger.Info("user login attempt", "email", maskEmail(email))

	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login failed - user not found",
			"email", maskEmail(email),
			"error", "user_not_found")
		return nil, "", errors.New("invalid credentials")
	}

	if err := account.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password",
			"email", maskEmail(email),
			"user_id", account.ID,
			"error", "invalid_password")
		return nil, "", errors.New("invalid credentials")
	}

	token, err := s.generateJWTToken(account)
	if err != nil {
		s.logger.Error("JWT token generation failed",
			"error", err,
			"user_id", account.ID,
			"email", maskEmail(email))
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful",
		"email", maskEmail(email),
		"user_id", account.ID)

	return account, token, nil
}

// Register creates a new account and returns it without a session; callers
// log in separately.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validateRegistrationInput(email, password); err != nil {
		s.logger.Warn("registration validation failed",
			"email", maskEmail(email),
			"error", err.Error())
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.logger.Info("user registration attempt", "email", maskEmail(email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		s.logger.Warn("registration failed - email already exists",
			"email", maskEmail(email),
			"existing_user_id", existing.ID)
		return nil, errors.New("an account with this email already exists")
	}

	account := &domain.User{Email: email}
	if err := account.HashPassword(password); err != nil {
		s.logger.Error("password hashing failed",
			"error", err,
			"email", maskEmail(email))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, account)
	if err != nil {
		s.logger.Error("user creation failed",
			"error", err,
			"email", maskEmail(email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered successfully",
		"email", maskEmail(email),
		"user_id", created.ID)

	return created, nil
}

func (s *AuthService) validateRegistrationInput(email, password string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email validation: invalid email address")
	}
	if len(password) < 8 {
		return fmt.Errorf("password validation: password must be at least 8 characters")
	}
	return nil
}

// ValidateJWTToken validates a JWT token and returns the user ID
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	if tokenString == "" {
		s.logger.Warn("JWT validation attempted with empty token")
		return 0, errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			s.logger.Warn("JWT token with invalid signing method",
				"method", token.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})

	if err != nil {
		s.logger.Warn("JWT token validation failed", "error", err)
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(float64)
		if !ok {
			s.logger.Warn("JWT token missing user_id claim")
			return 0, errors.New("invalid token claims")
		}
		return uint(userID), nil
	}

	s.logger.Warn("JWT token validation failed - invalid claims")
	return 0, errors.New("invalid token")
}

// generateJWTToken creates a JWT token for the user
func (s *AuthService) generateJWTToken(account *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": account.ID,
		"email":   account.Email,
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecretKey))
}
